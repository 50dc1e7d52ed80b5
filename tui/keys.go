package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/beatquest/engine"
	"github.com/nathoo/beatquest/engine/input"
	"github.com/nathoo/beatquest/types"
)

// keyMap is the help view of the engine's bindings plus the TUI's own keys.
type keyMap struct {
	Interact key.Binding
	Quests   key.Binding
	Attack   key.Binding
	Accept   key.Binding
	Decline  key.Binding
	Staff    key.Binding
	Move     key.Binding
	Look     key.Binding
	Command  key.Binding
	Scroll   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// newKeyMap builds help bindings from the engine contexts, so a rebound
// keymap shows up in the help line.
func newKeyMap(c engine.Contexts) keyMap {
	return keyMap{
		Interact: binding(c.Player, "talk", types.ActionInteract),
		Quests:   binding(c.Player, "quests", types.ActionOpenQuestScreen),
		Attack:   binding(c.Player, "swing", types.ActionAttack),
		Accept:   binding(c.Proposal, "accept", types.ActionAccept),
		Decline:  binding(c.Proposal, "decline", types.ActionDecline),
		Staff:    binding(c.Global, "staff", types.ActionToggleStaff),
		Move: binding(c.Movement, "move",
			types.ActionMoveForward, types.ActionMoveLeft, types.ActionMoveBack, types.ActionMoveRight),
		Look: binding(c.Movement, "look",
			types.ActionLookLeft, types.ActionLookRight, types.ActionLookUp, types.ActionLookDown),
		Command: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Scroll:  key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll log")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// binding collects the keys of actions in ctx. The help label shows the
// first key of each action.
func binding(ctx *input.Context, desc string, actions ...types.Action) key.Binding {
	var keys, labels []string
	for _, a := range actions {
		ks := ctx.Keys(a)
		for _, k := range ks {
			keys = append(keys, string(k))
		}
		if len(ks) > 0 {
			labels = append(labels, string(ks[0]))
		}
	}
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(labels, "/"), desc))
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Interact, k.Attack, k.Quests, k.Staff, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Interact, k.Accept, k.Decline, k.Quests},
		{k.Attack, k.Staff, k.Move, k.Look},
		{k.Command, k.Scroll, k.Help, k.Quit},
	}
}

// keyName turns a key message into the name the engine binds.
func keyName(msg tea.KeyMsg) input.Key {
	s := msg.String()
	if s == " " {
		return "space"
	}
	return input.Key(s)
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (the engine uses those for looking).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
