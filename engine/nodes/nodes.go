// Package nodes is the display tree: a hierarchy of text, button, container
// and bar nodes stored in the entity world. Front ends render it; gameplay
// only mutates text, fill and visibility.
package nodes

import (
	"github.com/yohamta/donburi"

	"github.com/nathoo/beatquest/engine/world"
)

// Kind is the widget a node renders as.
type Kind int

const (
	Container Kind = iota
	Text
	Button
	Bar
)

func (k Kind) String() string {
	switch k {
	case Container:
		return "container"
	case Text:
		return "text"
	case Button:
		return "button"
	case Bar:
		return "bar"
	default:
		return "unknown"
	}
}

// Data is a node's display state. Fill is a percentage in [0, 100].
type Data struct {
	Kind    Kind
	Text    string
	Fill    float64
	Visible bool
}

// Node is the component that makes an entity part of the display tree.
var Node = donburi.NewComponentType[Data]()

// Tree spawns and edits display nodes.
type Tree struct {
	w *world.World
}

// NewTree returns a tree over w.
func NewTree(w *world.World) *Tree {
	return &Tree{w: w}
}

// Spawn creates a visible node under parent. Pass donburi.Null for a root.
// Extra components are added to the entity.
func (t *Tree) Spawn(name string, kind Kind, parent donburi.Entity, extra ...donburi.IComponentType) donburi.Entity {
	comps := append([]donburi.IComponentType{Node}, extra...)
	entry := t.w.Spawn(name, comps...)
	Node.SetValue(entry, Data{Kind: kind, Visible: true})
	if parent != donburi.Null {
		t.w.SetParent(entry.Entity(), parent)
	}
	return entry.Entity()
}

// Get returns a copy of the node's data.
func (t *Tree) Get(e donburi.Entity) (Data, bool) {
	d := t.data(e)
	if d == nil {
		return Data{}, false
	}
	return *d, true
}

// SetText replaces the node's text. Stale handles are ignored.
func (t *Tree) SetText(e donburi.Entity, s string) {
	if d := t.data(e); d != nil {
		d.Text = s
	}
}

// SetFill sets the bar fill, clamped to [0, 100].
func (t *Tree) SetFill(e donburi.Entity, pct float64) {
	if d := t.data(e); d != nil {
		d.Fill = min(max(pct, 0), 100)
	}
}

// SetVisible shows or hides a node and, implicitly, its subtree.
func (t *Tree) SetVisible(e donburi.Entity, v bool) {
	if d := t.data(e); d != nil {
		d.Visible = v
	}
}

// Shown reports whether e and all of its ancestors are visible.
func (t *Tree) Shown(e donburi.Entity) bool {
	for {
		d := t.data(e)
		if d == nil || !d.Visible {
			return false
		}
		parent, ok := t.w.ParentOf(e)
		if !ok {
			return true
		}
		e = parent
	}
}

// Children returns the node's direct children.
func (t *Tree) Children(e donburi.Entity) []donburi.Entity {
	return t.w.ChildrenOf(e)
}

// Destroy removes e and its subtree.
func (t *Tree) Destroy(e donburi.Entity) {
	t.w.DestroyRecursive(e)
}

// Walk visits e and its descendants depth first. Returning false from fn
// skips the node's children.
func (t *Tree) Walk(e donburi.Entity, fn func(e donburi.Entity, d Data, depth int) bool) {
	t.walk(e, 0, fn)
}

func (t *Tree) walk(e donburi.Entity, depth int, fn func(donburi.Entity, Data, int) bool) {
	d := t.data(e)
	if d == nil {
		return
	}
	if !fn(e, *d, depth) {
		return
	}
	for _, c := range t.w.ChildrenOf(e) {
		t.walk(c, depth+1, fn)
	}
}

// Roots returns every node without a parent.
func (t *Tree) Roots() []donburi.Entity {
	var out []donburi.Entity
	for _, e := range t.w.Entities(Node) {
		if _, ok := t.w.ParentOf(e); !ok {
			out = append(out, e)
		}
	}
	return out
}

func (t *Tree) data(e donburi.Entity) *Data {
	entry, ok := t.w.Lookup(e)
	if !ok || !entry.HasComponent(Node) {
		return nil
	}
	return Node.Get(entry)
}

// MapRange linearly maps v from [inLo, inHi] to [outLo, outHi]. A degenerate
// input range maps to outLo.
func MapRange(v, inLo, inHi, outLo, outHi float64) float64 {
	if inHi == inLo {
		return outLo
	}
	return outLo + (v-inLo)*(outHi-outLo)/(inHi-inLo)
}
