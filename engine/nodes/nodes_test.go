package nodes

import (
	"math"
	"testing"

	"github.com/yohamta/donburi"

	"github.com/nathoo/beatquest/engine/world"
)

func TestSpawn_DefaultsVisible(t *testing.T) {
	tree := NewTree(world.New())
	root := tree.Spawn("root", Container, donburi.Null)

	d, ok := tree.Get(root)
	if !ok {
		t.Fatal("root not found")
	}
	if !d.Visible || d.Kind != Container {
		t.Errorf("unexpected data %+v", d)
	}
}

func TestShown_RespectsAncestors(t *testing.T) {
	tree := NewTree(world.New())
	root := tree.Spawn("root", Container, donburi.Null)
	panel := tree.Spawn("panel", Container, root)
	label := tree.Spawn("label", Text, panel)

	if !tree.Shown(label) {
		t.Fatal("label should be shown")
	}
	tree.SetVisible(panel, false)
	if tree.Shown(label) {
		t.Error("label under hidden panel should not be shown")
	}
	if d, _ := tree.Get(label); !d.Visible {
		t.Error("hiding the parent must not change the child's own flag")
	}
}

func TestSetFill_Clamps(t *testing.T) {
	tree := NewTree(world.New())
	bar := tree.Spawn("bar", Bar, donburi.Null)

	tests := []struct {
		in, want float64
	}{
		{-5, 0},
		{42.5, 42.5},
		{180, 100},
	}
	for _, tt := range tests {
		tree.SetFill(bar, tt.in)
		d, _ := tree.Get(bar)
		if d.Fill != tt.want {
			t.Errorf("SetFill(%v) = %v, want %v", tt.in, d.Fill, tt.want)
		}
	}
}

func TestDestroy_RemovesSubtree(t *testing.T) {
	w := world.New()
	tree := NewTree(w)
	root := tree.Spawn("root", Container, donburi.Null)
	child := tree.Spawn("child", Text, root)

	tree.Destroy(root)
	if _, ok := tree.Get(child); ok {
		t.Error("child survived destroy")
	}
	tree.SetText(child, "ignored")
}

func TestWalk_DepthFirst(t *testing.T) {
	tree := NewTree(world.New())
	root := tree.Spawn("root", Container, donburi.Null)
	a := tree.Spawn("a", Text, root)
	tree.SetText(a, "a")
	b := tree.Spawn("b", Container, root)
	c := tree.Spawn("c", Text, b)
	tree.SetText(c, "c")

	var seen []string
	var depths []int
	tree.Walk(root, func(e donburi.Entity, d Data, depth int) bool {
		seen = append(seen, d.Text)
		depths = append(depths, depth)
		return true
	})
	if len(seen) != 4 || seen[1] != "a" || seen[3] != "c" || depths[3] != 2 {
		t.Errorf("walk order %v depths %v", seen, depths)
	}

	count := 0
	tree.Walk(root, func(e donburi.Entity, d Data, depth int) bool {
		count++
		return e == root
	})
	if count != 3 {
		t.Errorf("pruned walk visited %d nodes, want 3", count)
	}
}

func TestMapRange(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0, 0, 5, 0},
		{2, 0, 5, 40},
		{5, 0, 5, 100},
		{1, 0, 1, 100},
		{3, 3, 3, 0},
	}
	for _, tt := range tests {
		got := MapRange(tt.v, tt.lo, tt.hi, 0, 100)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("MapRange(%v, %v..%v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
