package questing

import (
	"fmt"
	"slices"

	"github.com/yohamta/donburi"

	"github.com/nathoo/beatquest/engine/nodes"
	"github.com/nathoo/beatquest/engine/quest"
	"github.com/nathoo/beatquest/types"
)

// ScreenNode holds the display nodes for one quest.
type ScreenNode struct {
	Entry        donburi.Entity // list button
	Label        donburi.Entity
	Detail       donburi.Entity // hidden until selected
	Description  donburi.Entity
	ProgressText donburi.Entity
	ProgressBar  donburi.Entity // container
	Fill         donburi.Entity
}

// Screen is the quest log. Tracked is the set of quests that should have
// nodes; Sync makes Nodes match it.
type Screen struct {
	Root      donburi.Entity
	List      donburi.Entity
	Display   donburi.Entity
	Displayed donburi.Entity

	tracked []types.QuestID
	Nodes   map[types.QuestID]ScreenNode

	tree     *nodes.Tree
	registry *quest.Registry
}

// NewScreen lays out the list and display containers under root.
func NewScreen(tree *nodes.Tree, registry *quest.Registry, root donburi.Entity) *Screen {
	return &Screen{
		Root:      root,
		List:      tree.Spawn("Quest List", nodes.Container, root),
		Display:   tree.Spawn("Quest Display", nodes.Container, root),
		Displayed: donburi.Null,
		Nodes:     map[types.QuestID]ScreenNode{},
		tree:      tree,
		registry:  registry,
	}
}

// Track adds id to the tracked set.
func (s *Screen) Track(id types.QuestID) {
	if !s.Tracked(id) {
		s.tracked = append(s.tracked, id)
	}
}

// Untrack removes id from the tracked set.
func (s *Screen) Untrack(id types.QuestID) {
	if i := slices.Index(s.tracked, id); i >= 0 {
		s.tracked = slices.Delete(s.tracked, i, i+1)
	}
}

// Tracked reports whether id is tracked.
func (s *Screen) Tracked(id types.QuestID) bool {
	return slices.Contains(s.tracked, id)
}

// TrackedIDs returns the tracked quests in the order they were added.
func (s *Screen) TrackedIDs() []types.QuestID {
	return slices.Clone(s.tracked)
}

// Sync creates nodes for tracked quests that lack them, then destroys nodes
// whose quest is no longer tracked. A tracked quest missing from the
// registry is an invariant violation and panics.
func (s *Screen) Sync() (added, removed []types.QuestID) {
	for _, id := range s.tracked {
		if _, ok := s.Nodes[id]; ok {
			continue
		}
		s.Nodes[id] = s.spawnNode(s.registry.MustGet(id))
		added = append(added, id)
	}
	for id, n := range s.Nodes {
		if s.Tracked(id) {
			continue
		}
		if s.Displayed == n.Detail {
			s.Displayed = donburi.Null
		}
		s.tree.Destroy(n.Entry)
		s.tree.Destroy(n.Detail)
		delete(s.Nodes, id)
		removed = append(removed, id)
	}
	return added, removed
}

func (s *Screen) spawnNode(q *types.Quest) ScreenNode {
	var n ScreenNode
	n.Detail = s.tree.Spawn(fmt.Sprintf("Quest Detail for %s", q.ID), nodes.Container, s.Display)
	s.tree.SetVisible(n.Detail, false)
	n.Description = s.tree.Spawn("Description", nodes.Text, n.Detail)
	s.tree.SetText(n.Description, q.Description)
	n.ProgressText = s.tree.Spawn("Progress Text", nodes.Text, n.Detail)
	n.ProgressBar = s.tree.Spawn("Progress Bar", nodes.Container, n.Detail)
	n.Fill = s.tree.Spawn("Progress Fill", nodes.Bar, n.ProgressBar)

	n.Entry = s.tree.Spawn(fmt.Sprintf("Quest Node for %s", q.ID), nodes.Button, s.List)
	n.Label = s.tree.Spawn("Name", nodes.Text, n.Entry)
	s.tree.SetText(n.Label, q.Name)

	s.render(q, n)
	return n
}

// Refresh re-renders the progress of every tracked node. Nodes of quests
// untracked since the last Sync are skipped; Sync destroys them. It is
// idempotent.
func (s *Screen) Refresh() {
	for id, n := range s.Nodes {
		if !s.Tracked(id) {
			continue
		}
		s.render(s.registry.MustGet(id), n)
	}
}

func (s *Screen) render(q *types.Quest, n ScreenNode) {
	lo, hi := q.Type.ProgressRange()
	s.tree.SetText(n.ProgressText, fmt.Sprintf("%d/%d", q.Progress, q.Type.MaxProgress()))
	s.tree.SetFill(n.Fill, nodes.MapRange(float64(q.Progress), lo, hi, 0, 100))
	label := q.Name
	if q.Completed {
		label += " (complete)"
	}
	s.tree.SetText(n.Label, label)
}

// Select shows the detail panel of id and hides the one shown before.
// Unknown ids are ignored.
func (s *Screen) Select(id types.QuestID) bool {
	n, ok := s.Nodes[id]
	if !ok {
		return false
	}
	if s.Displayed != donburi.Null {
		s.tree.SetVisible(s.Displayed, false)
	}
	s.tree.SetVisible(n.Detail, true)
	s.Displayed = n.Detail
	return true
}

// Selected returns the quest whose detail panel is shown.
func (s *Screen) Selected() (types.QuestID, bool) {
	if s.Displayed == donburi.Null {
		return types.QuestID{}, false
	}
	for id, n := range s.Nodes {
		if n.Detail == s.Displayed {
			return id, true
		}
	}
	return types.QuestID{}, false
}

// Ordered returns the quests that have nodes, in tracking order.
func (s *Screen) Ordered() []types.QuestID {
	out := make([]types.QuestID, 0, len(s.Nodes))
	for _, id := range s.tracked {
		if _, ok := s.Nodes[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
