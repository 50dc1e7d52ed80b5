// Package menu keeps the stack of open UI contexts. Only the topmost menu's
// input context is enabled, and the base (gameplay) context is enabled only
// when no menu is open.
package menu

import (
	"slices"

	"github.com/yohamta/donburi"

	"github.com/nathoo/beatquest/engine/input"
	"github.com/nathoo/beatquest/engine/nodes"
	"github.com/nathoo/beatquest/engine/world"
	"github.com/nathoo/beatquest/types"
)

// Mode decides what happens to a menu when it leaves the stack.
type Mode int

const (
	// HideWhenClosed keeps the menu's nodes and hides them.
	HideWhenClosed Mode = iota
	// DespawnWhenClosed destroys the menu entity and its subtree.
	DespawnWhenClosed
)

// Data is the menu component. The menu entity is also its root display node.
type Data struct {
	Context *input.Context
	Mode    Mode
}

// Menu marks an entity as a menu.
var Menu = donburi.NewComponentType[Data]()

// Stack is the ordered set of open menus, bottom first.
type Stack struct {
	w     *world.World
	tree  *nodes.Tree
	in    *input.State
	base  *input.Context
	stack []donburi.Entity
}

// NewStack returns an empty stack. base is the gameplay context.
func NewStack(w *world.World, tree *nodes.Tree, in *input.State, base *input.Context) *Stack {
	s := &Stack{w: w, tree: tree, in: in, base: base}
	s.refresh()
	return s
}

// Spawn creates a menu root node with its own context. Hide-mode menus
// start hidden; despawn-mode menus are expected to be pushed right away.
func (s *Stack) Spawn(name string, ctx *input.Context, mode Mode) donburi.Entity {
	e := s.tree.Spawn(name, nodes.Container, donburi.Null, Menu)
	entry := s.w.Entry(e)
	Menu.SetValue(entry, Data{Context: ctx, Mode: mode})
	ctx.Enabled = false
	if mode == HideWhenClosed {
		s.tree.SetVisible(e, false)
	}
	return e
}

// Push opens a menu on top of the stack. Pushing a menu that is already open
// or is not a menu does nothing.
func (s *Stack) Push(e donburi.Entity) {
	if !s.w.Has(e, Menu) || s.Contains(e) {
		return
	}
	s.stack = append(s.stack, e)
	s.tree.SetVisible(e, true)
	s.refresh()
}

// Pop closes the topmost menu.
func (s *Stack) Pop() (donburi.Entity, bool) {
	top, ok := s.Top()
	if !ok {
		return donburi.Null, false
	}
	s.Close(top)
	return top, true
}

// Close removes e from the stack wherever it is and applies its close mode.
func (s *Stack) Close(e donburi.Entity) {
	i := slices.Index(s.stack, e)
	if i < 0 {
		return
	}
	s.stack = slices.Delete(s.stack, i, i+1)
	if entry, ok := s.w.Lookup(e); ok {
		d := Menu.Get(entry)
		d.Context.Enabled = false
		if d.Mode == DespawnWhenClosed {
			s.tree.Destroy(e)
		} else {
			s.tree.SetVisible(e, false)
		}
	}
	s.refresh()
}

// Top returns the topmost open menu.
func (s *Stack) Top() (donburi.Entity, bool) {
	if len(s.stack) == 0 {
		return donburi.Null, false
	}
	return s.stack[len(s.stack)-1], true
}

// Contains reports whether e is open.
func (s *Stack) Contains(e donburi.Entity) bool {
	return slices.Contains(s.stack, e)
}

// Len returns the number of open menus.
func (s *Stack) Len() int {
	return len(s.stack)
}

// Open returns the open menus, bottom first.
func (s *Stack) Open() []donburi.Entity {
	return slices.Clone(s.stack)
}

// Context returns the input context of menu e.
func (s *Stack) Context(e donburi.Entity) (*input.Context, bool) {
	entry, ok := s.w.Lookup(e)
	if !ok || !entry.HasComponent(Menu) {
		return nil, false
	}
	return Menu.Get(entry).Context, true
}

// CloseOn closes every open menu whose own context saw a just-pressed.
// The triggering key is consumed so it cannot reopen a menu later in
// the same tick. Returns the closed menus.
func (s *Stack) CloseOn(a types.Action) []donburi.Entity {
	var closed []donburi.Entity
	for _, e := range s.Open() {
		ctx, ok := s.Context(e)
		if !ok {
			continue
		}
		if s.in.ConsumeAction(ctx, a) {
			closed = append(closed, e)
		}
	}
	for _, e := range closed {
		s.Close(e)
	}
	return closed
}

// ShowOn pushes e when the base context sees a just-pressed and e is not
// already open. Reports whether it opened.
func (s *Stack) ShowOn(a types.Action, e donburi.Entity) bool {
	if s.Contains(e) {
		return false
	}
	if !s.in.ConsumeAction(s.base, a) {
		return false
	}
	s.Push(e)
	return true
}

func (s *Stack) refresh() {
	if s.base != nil {
		s.base.Enabled = len(s.stack) == 0
	}
	for i, e := range s.stack {
		if ctx, ok := s.Context(e); ok {
			ctx.Enabled = i == len(s.stack)-1
		}
	}
}
