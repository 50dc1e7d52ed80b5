// Package notes lets the player open a staff and play notes on the keyboard.
// A played sequence that ends with a registered pattern sends that
// pattern's command and clears the notes.
package notes

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/nathoo/beatquest/engine/events"
	"github.com/nathoo/beatquest/engine/input"
	"github.com/nathoo/beatquest/logging"
	"github.com/nathoo/beatquest/types"
)

// Note is a pitch name such as "C4" or "FS5".
type Note string

// HolderSize is how many notes the staff shows.
const HolderSize = 16

// Built-in commands.
const (
	CommandPing = "ping"
	CommandKill = "kill"
)

// DefaultPatterns are used for commands the scenario does not define.
var DefaultPatterns = []Pattern{
	{Command: CommandPing, Notes: []Note{"C4", "E4", "G4"}},
	{Command: CommandKill, Notes: []Note{"G4", "E4", "C4"}},
}

// Keyboard maps keys to notes from C4 to E6, laid out like a piano on two
// keyboard rows. C5 to E5 sit on both rows.
var Keyboard = []struct {
	Key  input.Key
	Note Note
}{
	{"z", "C4"}, {"s", "CS4"}, {"x", "D4"}, {"d", "DS4"}, {"c", "E4"}, {"v", "F4"},
	{"g", "FS4"}, {"b", "G4"}, {"h", "GS4"}, {"n", "A4"}, {"j", "AS4"}, {"m", "B4"},
	{",", "C5"}, {"l", "CS5"}, {".", "D5"}, {";", "DS5"}, {"/", "E5"},
	{"q", "C5"}, {"2", "CS5"}, {"w", "D5"}, {"3", "DS5"}, {"e", "E5"}, {"r", "F5"},
	{"5", "FS5"}, {"t", "G5"}, {"6", "GS5"}, {"y", "A5"}, {"7", "AS5"}, {"u", "B5"},
	{"i", "C6"}, {"9", "CS6"}, {"o", "D6"}, {"0", "DS6"}, {"p", "E6"},
}

var validNotes = func() map[Note]bool {
	m := map[Note]bool{}
	for _, k := range Keyboard {
		m[k.Note] = true
	}
	return m
}()

// Valid reports whether n can be played.
func Valid(n Note) bool {
	return validNotes[n]
}

// Action is the input action that plays n.
func Action(n Note) types.Action {
	return types.Action("note_" + string(n))
}

// NewContext returns a disabled context binding every note key.
func NewContext() *input.Context {
	ctx := input.NewContext("notes")
	for _, k := range Keyboard {
		ctx.Bind(Action(k.Note), k.Key)
	}
	ctx.Enabled = false
	return ctx
}

// Pattern binds a note sequence to a command name.
type Pattern struct {
	Command string
	Notes   []Note
}

func (p Pattern) String() string {
	parts := make([]string, len(p.Notes))
	for i, n := range p.Notes {
		parts[i] = string(n)
	}
	return fmt.Sprintf("%s(%s)", p.Command, strings.Join(parts, " "))
}

// CommandSent is emitted when a pattern matches.
type CommandSent struct {
	Command string
	Notes   []Note
}

// System is the staff, the note holder and the pattern matcher.
type System struct {
	Input    *input.State
	Notes    *input.Context
	Global   *input.Context
	Movement *input.Context

	Open     bool
	Holder   []Note
	Patterns []Pattern
	Sent     events.Queue[CommandSent]

	buffer   []Note
	handlers map[string]func(CommandSent)
	logger   *slog.Logger
}

// New returns a closed staff. Patterns missing from the list are filled in
// from DefaultPatterns.
func New(in *input.State, global, movement *input.Context, patterns []Pattern, logger *slog.Logger) *System {
	s := &System{
		Input:    in,
		Notes:    NewContext(),
		Global:   global,
		Movement: movement,
		Patterns: slices.Clone(patterns),
		handlers: map[string]func(CommandSent){},
		logger:   logging.OrDiscard(logger),
	}
	for _, d := range DefaultPatterns {
		if !slices.ContainsFunc(s.Patterns, func(p Pattern) bool { return p.Command == d.Command }) {
			s.Patterns = append(s.Patterns, d)
		}
	}
	return s
}

// Handle registers the handler run when command is sent.
func (s *System) Handle(command string, fn func(CommandSent)) {
	s.handlers[command] = fn
}

// Toggle flips the staff on a toggle press. Opening enables note input and
// disables movement; closing does the reverse and clears the notes.
func (s *System) Toggle() bool {
	if !s.Input.ConsumeAction(s.Global, types.ActionToggleStaff) {
		return false
	}
	s.SetOpen(!s.Open)
	return true
}

// SetOpen opens or closes the staff.
func (s *System) SetOpen(open bool) {
	s.Open = open
	s.Notes.Enabled = open
	if s.Movement != nil {
		s.Movement.Enabled = !open
	}
	if !open {
		s.Clear()
	}
	s.logger.Debug("staff toggled", "open", open)
}

// ReadKeys plays every note key pressed this tick, consuming the keys so
// gameplay bindings on the same keys stay quiet while the staff is open.
func (s *System) ReadKeys() []Note {
	if !s.Open {
		return nil
	}
	var played []Note
	for _, k := range Keyboard {
		if s.Input.ConsumeAction(s.Notes, Action(k.Note)) {
			s.Play(k.Note)
			played = append(played, k.Note)
		}
	}
	return played
}

// Play adds n to the holder and checks the patterns. Notes played while the
// staff is closed are ignored.
func (s *System) Play(n Note) bool {
	if !s.Open {
		return false
	}
	s.Holder = append(s.Holder, n)
	if len(s.Holder) > HolderSize {
		s.Holder = s.Holder[len(s.Holder)-HolderSize:]
	}
	s.buffer = append(s.buffer, n)
	if limit := s.longest(); len(s.buffer) > limit {
		s.buffer = s.buffer[len(s.buffer)-limit:]
	}
	for _, p := range s.Patterns {
		if len(p.Notes) == 0 || !hasSuffix(s.buffer, p.Notes) {
			continue
		}
		s.Sent.Send(CommandSent{Command: p.Command, Notes: slices.Clone(p.Notes)})
		s.logger.Info("command sent", "command", p.Command)
		s.Clear()
		break
	}
	return true
}

// Clear empties the holder and the pattern buffer.
func (s *System) Clear() {
	s.Holder = s.Holder[:0]
	s.buffer = s.buffer[:0]
}

// Dispatch runs the handler of every sent command once. Returns how many
// found a handler.
func (s *System) Dispatch() int {
	return events.Dispatch(&s.Sent, func(c CommandSent) string { return c.Command }, s.handlers)
}

func (s *System) longest() int {
	n := 1
	for _, p := range s.Patterns {
		n = max(n, len(p.Notes))
	}
	return n
}

func hasSuffix(buf, pat []Note) bool {
	if len(pat) > len(buf) {
		return false
	}
	return slices.Equal(buf[len(buf)-len(pat):], pat)
}
