// Package world is the entity arena shared by every gameplay system.
// Entities are generational donburi handles; a destroyed handle never
// aliases a later entity.
package world

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/nathoo/beatquest/types"
)

// TransformData places an entity in world space.
type TransformData struct {
	Position types.Vec3
	Yaw      float64
	Pitch    float64
}

// ColliderData is a sphere collider centred on the entity's transform.
type ColliderData struct {
	Radius float64
}

// HealthData marks an entity as damageable.
type HealthData struct {
	Value float32
}

// ParentData links a child to its parent.
type ParentData struct {
	Entity donburi.Entity
}

// ChildrenData lists the direct children of an entity, in spawn order.
type ChildrenData struct {
	List []donburi.Entity
}

// Shared component types.
var (
	Name      = donburi.NewComponentType[string]()
	Transform = donburi.NewComponentType[TransformData]()
	Collider  = donburi.NewComponentType[ColliderData]()
	Health    = donburi.NewComponentType[HealthData]()
	Parent    = donburi.NewComponentType[ParentData]()
	Children  = donburi.NewComponentType[ChildrenData]()
)

// World wraps a donburi world with hierarchy helpers.
type World struct {
	donburi.World
}

// New creates an empty world.
func New() *World {
	return &World{World: donburi.NewWorld()}
}

// Spawn creates a named entity with the given components (zero valued).
func (w *World) Spawn(name string, components ...donburi.IComponentType) *donburi.Entry {
	all := make([]donburi.IComponentType, 0, len(components)+1)
	all = append(all, Name)
	all = append(all, components...)
	entry := w.Entry(w.Create(all...))
	Name.SetValue(entry, name)
	return entry
}

// Lookup returns the entry for e, or false when the handle is stale.
func (w *World) Lookup(e donburi.Entity) (*donburi.Entry, bool) {
	if e == donburi.Null || !w.Valid(e) {
		return nil, false
	}
	return w.Entry(e), true
}

// NameOf returns the entity's name, or "" if it has none.
func (w *World) NameOf(e donburi.Entity) string {
	entry, ok := w.Lookup(e)
	if !ok || !entry.HasComponent(Name) {
		return ""
	}
	return *Name.Get(entry)
}

// SetParent attaches child under parent, detaching it from any previous parent.
func (w *World) SetParent(child, parent donburi.Entity) {
	c, ok := w.Lookup(child)
	if !ok {
		return
	}
	p, ok := w.Lookup(parent)
	if !ok {
		return
	}
	w.detach(c)
	if !c.HasComponent(Parent) {
		c.AddComponent(Parent)
	}
	Parent.SetValue(c, ParentData{Entity: parent})
	if !p.HasComponent(Children) {
		p.AddComponent(Children)
	}
	kids := Children.Get(p)
	kids.List = append(kids.List, child)
}

// ParentOf returns the parent of e, if any.
func (w *World) ParentOf(e donburi.Entity) (donburi.Entity, bool) {
	entry, ok := w.Lookup(e)
	if !ok || !entry.HasComponent(Parent) {
		return donburi.Null, false
	}
	return Parent.Get(entry).Entity, true
}

// ChildrenOf returns a copy of e's children.
func (w *World) ChildrenOf(e donburi.Entity) []donburi.Entity {
	entry, ok := w.Lookup(e)
	if !ok || !entry.HasComponent(Children) {
		return nil
	}
	list := Children.Get(entry).List
	out := make([]donburi.Entity, len(list))
	copy(out, list)
	return out
}

// DestroyRecursive removes e and all of its descendants. Stale handles are
// ignored.
func (w *World) DestroyRecursive(e donburi.Entity) {
	entry, ok := w.Lookup(e)
	if !ok {
		return
	}
	w.detach(entry)
	for _, child := range w.ChildrenOf(e) {
		w.DestroyRecursive(child)
	}
	w.Remove(e)
}

func (w *World) detach(child *donburi.Entry) {
	if !child.HasComponent(Parent) {
		return
	}
	parent := Parent.Get(child).Entity
	if p, ok := w.Lookup(parent); ok && p.HasComponent(Children) {
		kids := Children.Get(p)
		for i, k := range kids.List {
			if k == child.Entity() {
				kids.List = append(kids.List[:i], kids.List[i+1:]...)
				break
			}
		}
	}
	child.RemoveComponent(Parent)
}

// Entities returns every entity carrying all of the given components.
// The result is a snapshot, so callers may mutate the world while iterating.
func (w *World) Entities(components ...donburi.IComponentType) []donburi.Entity {
	var out []donburi.Entity
	donburi.NewQuery(filter.Contains(components...)).Each(w.World, func(entry *donburi.Entry) {
		out = append(out, entry.Entity())
	})
	return out
}

// Has reports whether e is alive and carries component c.
func (w *World) Has(e donburi.Entity, c donburi.IComponentType) bool {
	entry, ok := w.Lookup(e)
	return ok && entry.HasComponent(c)
}
