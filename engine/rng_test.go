package engine

import (
	"testing"

	"github.com/nathoo/beatquest/engine/quest"
)

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := rng1.Roll(6)
		b := rng2.Roll(6)
		if a != b {
			t.Fatalf("roll %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Roll_Range(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := rng.Roll(6)
		if r < 1 || r > 6 {
			t.Fatalf("roll out of range [1,6]: got %d", r)
		}
	}
}

func TestRNG_Range_Inclusive(t *testing.T) {
	rng := NewRNG(7)
	seen := map[int]bool{}

	for i := 0; i < 2000; i++ {
		r := rng.Range(1, 5)
		if r < 1 || r > 5 {
			t.Fatalf("Range(1,5) out of bounds: %d", r)
		}
		seen[r] = true
	}
	for want := 1; want <= 5; want++ {
		if !seen[want] {
			t.Errorf("Range(1,5) never produced %d", want)
		}
	}
}

func TestRNG_Range_Degenerate(t *testing.T) {
	rng := NewRNG(1)
	if got := rng.Range(3, 3); got != 3 {
		t.Errorf("Range(3,3) = %d, want 3", got)
	}
	if rng.Position() != 1 {
		t.Errorf("expected degenerate range to advance position, got %d", rng.Position())
	}
}

func TestRNG_WeightedSelect_Distribution(t *testing.T) {
	rng := NewRNG(12345)
	weights := []int{70, 20, 10}
	counts := [3]int{}

	const trials = 10000
	for i := 0; i < trials; i++ {
		idx := rng.WeightedSelect(weights)
		if idx < 0 || idx > 2 {
			t.Fatalf("index out of range: %d", idx)
		}
		counts[idx]++
	}

	if counts[0] < 6000 || counts[0] > 8000 {
		t.Errorf("expected ~7000 for weight 70, got %d", counts[0])
	}
	if counts[1] < 1000 || counts[1] > 3000 {
		t.Errorf("expected ~2000 for weight 20, got %d", counts[1])
	}
	if counts[2] < 200 || counts[2] > 1800 {
		t.Errorf("expected ~1000 for weight 10, got %d", counts[2])
	}
}

func TestRNG_WeightedSelect_SingleOption(t *testing.T) {
	rng := NewRNG(1)

	for i := 0; i < 10; i++ {
		if idx := rng.WeightedSelect([]int{100}); idx != 0 {
			t.Fatalf("single option should always be 0, got %d", idx)
		}
	}
}

func TestRNG_Position_Tracks(t *testing.T) {
	rng := NewRNG(42)

	if rng.Position() != 0 {
		t.Fatalf("expected position 0, got %d", rng.Position())
	}

	rng.Roll(6)
	if rng.Position() != 1 {
		t.Fatalf("expected position 1, got %d", rng.Position())
	}

	rng.WeightedSelect([]int{50, 50})
	rng.Range(1, 5)
	if rng.Position() != 3 {
		t.Fatalf("expected position 3, got %d", rng.Position())
	}
	if rng.Seed() != 42 {
		t.Errorf("expected seed 42, got %d", rng.Seed())
	}
}

func TestRNG_SameSeedSameQuests(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := 0; i < 10; i++ {
		qa, qb := quest.Generate(a), quest.Generate(b)
		if qa.Type != qb.Type || qa.Description != qb.Description {
			t.Fatalf("quest %d: %+v and %+v from same seed", i, qa.Type, qb.Type)
		}
	}
	if a.Position() != b.Position() {
		t.Errorf("positions %d and %d differ", a.Position(), b.Position())
	}
}
