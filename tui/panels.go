package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/yohamta/donburi"

	"github.com/nathoo/beatquest/engine/nodes"
)

// sideWidth is the width of the right-hand panel column.
const sideWidth = 40

// renderSide stacks the HUD, staff, quest screen and proposals.
func (m Model) renderSide() string {
	inner := sideWidth - 4 // border + padding
	blocks := []string{stylePanel.Width(inner).Render(m.renderHUD())}
	if m.engine.Notes.Open {
		blocks = append(blocks, stylePanel.Width(inner).Render(m.renderStaff()))
	}
	if m.engine.Questing.ScreenOpen() {
		blocks = append(blocks, stylePanel.Width(inner).Render(m.renderQuestScreen()))
	}
	for _, p := range m.engine.Questing.Proposals() {
		blocks = append(blocks, styleModal.Width(inner).Render(strings.Join(m.renderNodes(p), "\n")))
	}
	return strings.Join(blocks, "\n")
}

// renderHUD shows the hammer's swing state.
func (m Model) renderHUD() string {
	e := m.engine
	lines := []string{stylePanelTitle.Render("Hammer")}
	phase, swinging := e.Combat.Swinging(e.Pivot)
	if !swinging {
		return strings.Join(append(lines, "ready"), "\n")
	}
	beat, angle, _ := e.Combat.Beat(e.Pivot)
	state := phase
	if e.Combat.Armed(e.Head) {
		state = styleArmed.Render(phase + " (armed)")
	}
	lines = append(lines,
		state,
		fmt.Sprintf("beat %.2f  angle %.0f°", beat, angle*180/math.Pi),
		m.bar.ViewAs(clamp01(beat/3.5)),
	)
	return strings.Join(lines, "\n")
}

// renderStaff shows the notes played so far.
func (m Model) renderStaff() string {
	holder := m.engine.Notes.Holder
	notes := make([]string, len(holder))
	for i, n := range holder {
		notes[i] = string(n)
	}
	body := "(play a pattern)"
	if len(notes) > 0 {
		body = styleNote.Render(strings.Join(notes, " "))
	}
	return stylePanelTitle.Render("Staff") + "\n" + body
}

// renderQuestScreen draws the quest log node tree.
func (m Model) renderQuestScreen() string {
	lines := []string{stylePanelTitle.Render("Quests")}
	body := m.renderNodes(m.engine.Questing.Screen.Root)
	if len(body) == 0 {
		body = []string{"No quests yet."}
	}
	return strings.Join(append(lines, body...), "\n")
}

// renderNodes walks the display tree under root and renders visible nodes.
// Buttons are numbered in order and show their first text child.
func (m Model) renderNodes(root donburi.Entity) []string {
	tree := m.engine.Tree
	var lines []string
	button := 0
	tree.Walk(root, func(e donburi.Entity, d nodes.Data, depth int) bool {
		if !d.Visible {
			return false
		}
		switch d.Kind {
		case nodes.Text:
			if d.Text != "" {
				lines = append(lines, d.Text)
			}
		case nodes.Bar:
			lines = append(lines, m.bar.ViewAs(d.Fill/100))
		case nodes.Button:
			button++
			label := ""
			for _, c := range tree.Children(e) {
				if cd, ok := tree.Get(c); ok && cd.Kind == nodes.Text {
					label = cd.Text
					break
				}
			}
			lines = append(lines, fmt.Sprintf("%d. %s", button, label))
			return false
		}
		return true
	})
	return lines
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
