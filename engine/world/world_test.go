package world

import (
	"testing"

	"github.com/yohamta/donburi"
)

func TestSpawn_SetsName(t *testing.T) {
	w := New()
	e := w.Spawn("imp", Health).Entity()

	if got := w.NameOf(e); got != "imp" {
		t.Errorf("NameOf = %q, want imp", got)
	}
	if !w.Has(e, Health) {
		t.Error("expected Health component")
	}
	if w.Has(e, Collider) {
		t.Error("did not expect Collider component")
	}
}

func TestDestroyRecursive_RemovesDescendants(t *testing.T) {
	w := New()
	root := w.Spawn("root").Entity()
	child := w.Spawn("child").Entity()
	grandchild := w.Spawn("grandchild").Entity()
	w.SetParent(child, root)
	w.SetParent(grandchild, child)

	w.DestroyRecursive(root)

	for _, e := range []donburi.Entity{root, child, grandchild} {
		if w.Valid(e) {
			t.Errorf("entity %q still valid after recursive destroy", w.NameOf(e))
		}
	}
}

func TestDestroyRecursive_DetachesFromParent(t *testing.T) {
	w := New()
	root := w.Spawn("root").Entity()
	a := w.Spawn("a").Entity()
	b := w.Spawn("b").Entity()
	w.SetParent(a, root)
	w.SetParent(b, root)

	w.DestroyRecursive(a)

	kids := w.ChildrenOf(root)
	if len(kids) != 1 || kids[0] != b {
		t.Fatalf("expected only b under root, got %v", kids)
	}
	if !w.Valid(root) || !w.Valid(b) {
		t.Error("siblings and parent must survive")
	}
}

func TestDestroyRecursive_StaleHandleIgnored(t *testing.T) {
	w := New()
	e := w.Spawn("once").Entity()
	w.DestroyRecursive(e)
	w.DestroyRecursive(e) // must not panic

	if _, ok := w.Lookup(e); ok {
		t.Error("stale handle should not resolve")
	}
}

func TestSetParent_Reparents(t *testing.T) {
	w := New()
	p1 := w.Spawn("p1").Entity()
	p2 := w.Spawn("p2").Entity()
	c := w.Spawn("c").Entity()

	w.SetParent(c, p1)
	w.SetParent(c, p2)

	if len(w.ChildrenOf(p1)) != 0 {
		t.Errorf("expected p1 to have no children, got %v", w.ChildrenOf(p1))
	}
	if parent, ok := w.ParentOf(c); !ok || parent != p2 {
		t.Errorf("expected parent p2, got %v (ok=%v)", parent, ok)
	}
}

func TestEntities_Snapshot(t *testing.T) {
	w := New()
	w.Spawn("a", Health)
	w.Spawn("b", Health)
	w.Spawn("c")

	got := w.Entities(Health)
	if len(got) != 2 {
		t.Fatalf("expected 2 damageable entities, got %d", len(got))
	}
	for _, e := range got {
		w.DestroyRecursive(e)
	}
	if n := len(w.Entities(Health)); n != 0 {
		t.Errorf("expected none left, got %d", n)
	}
}
