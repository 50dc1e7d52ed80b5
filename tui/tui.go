package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/beatquest/cli"
	"github.com/nathoo/beatquest/engine"
	"github.com/nathoo/beatquest/engine/parser"
	"github.com/nathoo/beatquest/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed command input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the beatquest TUI.
type Model struct {
	engine *engine.Engine
	script *cli.CLI
	step   time.Duration

	viewport viewport.Model
	input    textinput.Model
	history  *History
	help     help.Model
	keys     keyMap
	bar      progress.Model

	rawLines []rawLine // accumulated log lines (unstyled, for re-wrapping)

	width       int
	height      int
	ready       bool
	trace       bool
	quitting    bool
	commandMode bool
}

// tickMsg advances the engine by one step.
type tickMsg struct{}

// gameOutputMsg carries output into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed command input (empty for engine output)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given engine, ticking tickRate
// times per second.
func New(eng *engine.Engine, tickRate int) Model {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	script := cli.New(eng)
	script.TickRate = tickRate
	script.In = strings.NewReader("")
	script.Out = io.Discard

	return Model{
		engine:  eng,
		script:  script,
		step:    script.Step(),
		input:   ti,
		history: NewHistory(100),
		help:    help.New(),
		keys:    newKeyMap(eng.Contexts),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(sideWidth-6)),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, tickRate int) error {
	m := New(eng, tickRate)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the tick loop and shows the title.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.initialOutput())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.step, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		lines := []string{m.engine.Scenario.Title, ""}
		if b := m.keys.Interact.Help(); b.Key != "" {
			lines = append(lines, fmt.Sprintf("Walk up to a quest giver and press %s.", b.Key))
		}
		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (ticks, key presses, window resize, output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		vpHeight := m.height - 2 // 1 status bar + 1 footer line
		if vpHeight < 1 {
			vpHeight = 1
		}
		vpWidth := m.width - sideWidth
		if vpWidth < 10 {
			vpWidth = 10
		}

		if !m.ready {
			m.viewport = viewport.New(vpWidth, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = vpWidth
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case tickMsg:
		result := m.engine.Tick(m.step)
		m = m.appendResult("", result)
		return m, m.tick()

	case gameOutputMsg:
		m = m.appendOutput(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.commandMode {
			return m.updateCommand(msg)
		}
		return m.updatePlay(msg)
	}
	return m, nil
}

// updatePlay feeds keys into the engine. A terminal only reports presses,
// so each key is a tap and held keys arrive as repeats.
func (m Model) updatePlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Command):
		m.commandMode = true
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.engine.Input.Tap(keyName(msg))
	return m, nil
}

// updateCommand edits the command line.
func (m Model) updateCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.commandMode = false
		m.input.SetValue("")
		m.input.Blur()
		return m, nil

	case "enter":
		return m.handleEnter()

	case "up":
		if prev, ok := m.history.Prev(); ok {
			m.input.SetValue(prev)
			m.input.CursorEnd()
		}
		return m, nil

	case "down":
		if next, ok := m.history.Next(); ok {
			m.input.SetValue(next)
			m.input.CursorEnd()
		} else {
			m.input.SetValue("")
			m.history.ResetCursor()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEnter runs the submitted command and returns to play mode.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.input.Blur()
	m.commandMode = false

	if line == "" {
		return m, nil
	}
	m.history.Push(line)
	m.history.ResetCursor()

	// Meta-commands.
	if strings.HasPrefix(line, "/") {
		output, quit := m.handleMeta(line)
		m = m.appendOutput(gameOutputMsg{input: line, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	result, err := m.script.Exec(parser.Parse(line))
	if err != nil {
		m = m.appendOutput(gameOutputMsg{input: line, lines: []string{err.Error()}, isSystem: true})
		return m, nil
	}
	m = m.appendResult(line, result)
	return m, nil
}

// appendResult logs engine output, plus events when tracing.
func (m Model) appendResult(input string, r types.Result) Model {
	lines := r.Output
	if m.trace {
		lines = append(lines, formatTrace(r)...)
	}
	if len(lines) == 0 && input == "" {
		return m
	}
	return m.appendOutput(gameOutputMsg{input: input, lines: lines})
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: ": " + msg.input, isInput: true})
	}
	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.viewport.Width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Preserves existing newlines within the text.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	paras := strings.Split(text, "\n")
	for i, p := range paras {
		paras[i] = wrapLine(p, width)
	}
	return strings.Join(paras, "\n")
}

func wrapLine(text string, width int) string {
	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		wLen := len(word)
		switch {
		case i == 0:
			lineLen = wLen
		case lineLen+1+wLen > width:
			result.WriteString("\n")
			lineLen = wLen
		default:
			result.WriteString(" ")
			lineLen += 1 + wLen
		}
		result.WriteString(word)
	}
	return result.String()
}

// View renders the layout: status bar, log and side panels, footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), m.renderSide())
	footer := m.help.View(m.keys)
	if m.commandMode {
		footer = m.input.View()
	}
	return m.renderStatusBar() + "\n" + body + "\n" + footer
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(line string) ([]string, bool) {
	cmd := strings.Fields(line)[0]
	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		r, _ := m.script.Exec(types.Intent{Verb: "status"})
		return r.Output, false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	r, _ := m.script.Exec(types.Intent{Verb: "help"})
	return append([]string{
		"System:",
		"  /quit   Exit",
		"  /help   Show this help",
		"  /state  Show the game state",
		"  /trace  Toggle event trace output",
		"",
	}, append(r.Output, "", "Press : for a command, Esc to go back. Up/Down recall commands.")...)
}

func formatTrace(r types.Result) []string {
	lines := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := []string{"[trace]", e.Type}
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Data[k]))
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines
}
