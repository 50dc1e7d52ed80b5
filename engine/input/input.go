// Package input tracks key state across ticks and resolves keys to logical
// actions through input contexts. A key press is seen as "just pressed" for
// exactly one tick, and a consumed press is invisible to later readers in
// the same tick.
package input

import (
	"sort"

	"github.com/nathoo/beatquest/types"
)

// Key names a physical key, using the terminal names ("e", "space", "`").
type Key string

// Context maps actions to keys. Only enabled contexts report actions.
type Context struct {
	Name     string
	Enabled  bool
	bindings map[types.Action][]Key
}

// NewContext returns an enabled, empty context.
func NewContext(name string) *Context {
	return &Context{
		Name:     name,
		Enabled:  true,
		bindings: map[types.Action][]Key{},
	}
}

// Bind adds keys to an action and returns the context for chaining.
func (c *Context) Bind(a types.Action, keys ...Key) *Context {
	c.bindings[a] = append(c.bindings[a], keys...)
	return c
}

// Rebind replaces the keys of an action.
func (c *Context) Rebind(a types.Action, keys ...Key) {
	c.bindings[a] = append([]Key(nil), keys...)
}

// Keys returns the keys bound to an action.
func (c *Context) Keys(a types.Action) []Key {
	return c.bindings[a]
}

// Actions returns the bound actions in a stable order.
func (c *Context) Actions() []types.Action {
	out := make([]types.Action, 0, len(c.bindings))
	for a := range c.bindings {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// State holds the key state of the current and previous tick.
type State struct {
	down     map[Key]bool
	prev     map[Key]bool
	consumed map[Key]bool
	release  map[Key]bool
}

// NewState returns a state with no keys down.
func NewState() *State {
	return &State{
		down:     map[Key]bool{},
		prev:     map[Key]bool{},
		consumed: map[Key]bool{},
		release:  map[Key]bool{},
	}
}

// Press marks k as held until Release.
func (s *State) Press(k Key) {
	s.down[k] = true
	delete(s.release, k)
}

// Release marks k as up.
func (s *State) Release(k Key) {
	s.down[k] = false
}

// Tap presses k for exactly one tick; it is released by the next Advance.
// Terminals report presses without releases, so front ends use this.
func (s *State) Tap(k Key) {
	s.down[k] = true
	s.release[k] = true
}

// Pressed reports whether k is currently down.
func (s *State) Pressed(k Key) bool {
	return s.down[k]
}

// JustPressed reports whether k went down this tick and was not consumed.
func (s *State) JustPressed(k Key) bool {
	return s.down[k] && !s.prev[k] && !s.consumed[k]
}

// Consume hides the current press of k from every later reader this tick.
func (s *State) Consume(k Key) {
	s.consumed[k] = true
}

// ActionJustPressed reports whether any key bound to a in ctx was just
// pressed. Disabled contexts never report.
func (s *State) ActionJustPressed(ctx *Context, a types.Action) bool {
	_, ok := s.justPressedKey(ctx, a)
	return ok
}

// ActionPressed reports whether any key bound to a in ctx is held.
func (s *State) ActionPressed(ctx *Context, a types.Action) bool {
	if ctx == nil || !ctx.Enabled {
		return false
	}
	for _, k := range ctx.bindings[a] {
		if s.down[k] {
			return true
		}
	}
	return false
}

// ConsumeAction reports ActionJustPressed and, when true, consumes the key
// so that the same press cannot trigger another action this tick.
func (s *State) ConsumeAction(ctx *Context, a types.Action) bool {
	k, ok := s.justPressedKey(ctx, a)
	if ok {
		s.Consume(k)
	}
	return ok
}

func (s *State) justPressedKey(ctx *Context, a types.Action) (Key, bool) {
	if ctx == nil || !ctx.Enabled {
		return "", false
	}
	for _, k := range ctx.bindings[a] {
		if s.JustPressed(k) {
			return k, true
		}
	}
	return "", false
}

// Advance ends the tick: tapped keys are released, the current state becomes
// the previous one, and consumption is cleared.
func (s *State) Advance() {
	for k := range s.release {
		s.down[k] = false
	}
	clear(s.release)
	clear(s.prev)
	for k, v := range s.down {
		if v {
			s.prev[k] = true
		}
	}
	clear(s.consumed)
}
