package notes

import (
	"testing"

	"github.com/nathoo/beatquest/engine/input"
	"github.com/nathoo/beatquest/types"
)

func newSystem(patterns ...Pattern) (*input.State, *input.Context, *System) {
	in := input.NewState()
	global := input.NewContext("global").Bind(types.ActionToggleStaff, "`")
	movement := input.NewContext("movement").Bind(types.ActionMoveForward, "w")
	return in, movement, New(in, global, movement, patterns, nil)
}

func TestToggle_SwapsInputs(t *testing.T) {
	in, movement, s := newSystem()

	in.Tap("`")
	if !s.Toggle() || !s.Open {
		t.Fatal("toggle should open the staff")
	}
	if !s.Notes.Enabled || movement.Enabled {
		t.Errorf("open: notes=%v movement=%v", s.Notes.Enabled, movement.Enabled)
	}
	in.Advance()

	s.Play("C4")
	in.Tap("`")
	s.Toggle()
	if s.Open || s.Notes.Enabled || !movement.Enabled {
		t.Errorf("closed: open=%v notes=%v movement=%v", s.Open, s.Notes.Enabled, movement.Enabled)
	}
	if len(s.Holder) != 0 {
		t.Error("closing should clear the notes")
	}

	in.Advance()
	if s.Toggle() {
		t.Error("no press, no toggle")
	}
}

func TestPlay_IgnoredWhenClosed(t *testing.T) {
	_, _, s := newSystem()
	if s.Play("C4") {
		t.Error("closed staff should ignore notes")
	}
	if len(s.Holder) != 0 {
		t.Error("holder should stay empty")
	}
}

func TestPlay_MatchFiresOnceAndClears(t *testing.T) {
	_, _, s := newSystem()
	s.SetOpen(true)

	for _, n := range []Note{"D4", "C4", "E4", "G4"} {
		s.Play(n)
	}
	sent := s.Sent.Drain()
	if len(sent) != 1 || sent[0].Command != CommandPing {
		t.Fatalf("sent = %+v, want one ping", sent)
	}
	if len(s.Holder) != 0 {
		t.Error("a match should clear the holder")
	}

	s.Play("G4")
	if s.Sent.Pending() {
		t.Error("the matched notes must not be reused")
	}
}

func TestPlay_ScenarioPatternOverridesDefault(t *testing.T) {
	_, _, s := newSystem(Pattern{Command: CommandPing, Notes: []Note{"A4"}})
	s.SetOpen(true)

	s.Play("A4")
	sent := s.Sent.Drain()
	if len(sent) != 1 || sent[0].Command != CommandPing {
		t.Fatalf("sent = %+v", sent)
	}

	for _, n := range []Note{"G4", "E4", "C4"} {
		s.Play(n)
	}
	if sent := s.Sent.Drain(); len(sent) != 1 || sent[0].Command != CommandKill {
		t.Errorf("default kill pattern should still apply, got %+v", sent)
	}
}

func TestHolder_Bounded(t *testing.T) {
	_, _, s := newSystem()
	s.SetOpen(true)
	for i := 0; i < HolderSize+5; i++ {
		s.Play("D4")
	}
	if len(s.Holder) != HolderSize {
		t.Errorf("holder has %d notes, want %d", len(s.Holder), HolderSize)
	}
}

func TestReadKeys_ConsumesNoteKeys(t *testing.T) {
	in, _, s := newSystem()
	player := input.NewContext("player").Bind(types.ActionInteract, "e")
	s.SetOpen(true)

	in.Tap("e")
	played := s.ReadKeys()
	if len(played) != 1 || played[0] != "E5" {
		t.Fatalf("played %v, want E5", played)
	}
	if in.ActionJustPressed(player, types.ActionInteract) {
		t.Error("note key should be consumed while the staff is open")
	}
}

func TestReadKeys_AlternateKeyPlaysOnce(t *testing.T) {
	in, _, s := newSystem()
	s.SetOpen(true)

	in.Tap("q")
	played := s.ReadKeys()
	if len(played) != 1 || played[0] != "C5" {
		t.Errorf("played %v, want one C5", played)
	}
}

func TestDispatch_RunsHandlers(t *testing.T) {
	_, _, s := newSystem()
	var got []string
	s.Handle(CommandPing, func(c CommandSent) { got = append(got, c.Command) })

	s.Sent.Send(CommandSent{Command: CommandPing})
	s.Sent.Send(CommandSent{Command: "unknown"})
	if n := s.Dispatch(); n != 1 {
		t.Errorf("handled %d, want 1", n)
	}
	if len(got) != 1 {
		t.Errorf("handler ran %d times", len(got))
	}
	if s.Sent.Pending() {
		t.Error("queue should be drained")
	}
}

func TestValid(t *testing.T) {
	if !Valid("FS5") || Valid("H9") {
		t.Error("unexpected validity")
	}
}

func TestKeyboard_Layout(t *testing.T) {
	if first, last := Keyboard[0].Note, Keyboard[len(Keyboard)-1].Note; first != "C4" || last != "E6" {
		t.Errorf("keyboard spans %s to %s, want C4 to E6", first, last)
	}
	ctx := NewContext()
	tests := []struct {
		note Note
		keys int
	}{
		{"C4", 1},
		{"B4", 1},
		{"C5", 2},
		{"DS5", 2},
		{"E5", 2},
		{"F5", 1},
		{"E6", 1},
	}
	for _, tt := range tests {
		if got := len(ctx.Keys(Action(tt.note))); got != tt.keys {
			t.Errorf("%s has %d keys, want %d", tt.note, got, tt.keys)
		}
	}
}
