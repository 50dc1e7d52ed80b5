package engine

import (
	"github.com/nathoo/beatquest/engine/input"
	"github.com/nathoo/beatquest/types"
)

// LookStep is the pointer delta, in pixels, applied per look key press.
const LookStep = 40.0

// Contexts groups the always-present input contexts.
type Contexts struct {
	// Player holds gameplay actions; enabled only with no menu open.
	Player *input.Context
	// Movement holds walking and looking; disabled while the staff is open.
	Movement *input.Context
	// Global is always enabled.
	Global *input.Context
	// Screen is the quest screen's own context.
	Screen *input.Context
	// Proposal is the template copied into every quest proposal.
	Proposal *input.Context
}

// DefaultContexts returns the stock key bindings.
func DefaultContexts() Contexts {
	return Contexts{
		Player: input.NewContext("player").
			Bind(types.ActionInteract, "e").
			Bind(types.ActionOpenQuestScreen, "j").
			Bind(types.ActionAttack, "f"),
		Movement: input.NewContext("movement").
			Bind(types.ActionMoveForward, "w", "W").
			Bind(types.ActionMoveBack, "s", "S").
			Bind(types.ActionMoveLeft, "a", "A").
			Bind(types.ActionMoveRight, "d", "D").
			Bind(types.ActionSprint, "W", "S", "A", "D").
			Bind(types.ActionLookLeft, "left").
			Bind(types.ActionLookRight, "right").
			Bind(types.ActionLookUp, "up").
			Bind(types.ActionLookDown, "down"),
		Global: input.NewContext("global").
			Bind(types.ActionToggleStaff, "`"),
		Screen: input.NewContext("quest_screen").
			Bind(types.ActionCloseMenu, "j"),
		Proposal: input.NewContext("proposal").
			Bind(types.ActionAccept, "e").
			Bind(types.ActionDecline, "space"),
	}
}

// All returns every context, for rebinding by name.
func (c Contexts) All() []*input.Context {
	return []*input.Context{c.Player, c.Movement, c.Global, c.Screen, c.Proposal}
}

// proposalFactory copies the proposal template so each proposal gets its
// own enabled flag.
func (c Contexts) proposalFactory() func() *input.Context {
	tmpl := c.Proposal
	return func() *input.Context {
		ctx := input.NewContext(tmpl.Name)
		for _, a := range tmpl.Actions() {
			ctx.Bind(a, tmpl.Keys(a)...)
		}
		return ctx
	}
}
