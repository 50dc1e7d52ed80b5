package quest

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/nathoo/beatquest/types"
)

type fixedRoller struct {
	pick  int
	count int
}

func (f fixedRoller) WeightedSelect([]int) int { return f.pick }
func (f fixedRoller) Range(lo, hi int) int     { return f.count }

// seededRoller draws from math/rand with a fixed seed.
type seededRoller struct{ r *rand.Rand }

func newSeeded(seed int64) seededRoller {
	return seededRoller{r: rand.New(rand.NewSource(seed))}
}

func (s seededRoller) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	roll := s.r.Intn(total)
	for i, w := range weights {
		if roll < w {
			return i
		}
		roll -= w
	}
	return len(weights) - 1
}

func (s seededRoller) Range(lo, hi int) int { return lo + s.r.Intn(hi-lo+1) }

func TestGenerate_Fetch(t *testing.T) {
	q := Generate(fixedRoller{pick: 0})

	if q.Type.Kind != types.QuestFetch {
		t.Fatalf("kind = %v, want fetch", q.Type.Kind)
	}
	if q.Name != "Awesome Fetch Quest" {
		t.Errorf("name = %q", q.Name)
	}
	if q.Description != "imps stole my orange cube... pwease go get it back!!" {
		t.Errorf("description = %q", q.Description)
	}
	if q.Progress != 0 || q.Completed {
		t.Error("new quest should start at zero progress")
	}
}

func TestGenerate_KillCountInDescription(t *testing.T) {
	for n := 1; n <= 5; n++ {
		q := Generate(fixedRoller{pick: 1, count: n})
		if q.Type.Kind != types.QuestKill || q.Type.Count != n {
			t.Fatalf("type = %+v, want kill %d", q.Type, n)
		}
		want := fmt.Sprintf("imps killed my grandma... pwease go take revenge on those darn imps for me... kill %d!!", n)
		if q.Description != want {
			t.Errorf("description = %q", q.Description)
		}
	}
}

func TestGenerate_SeededDistribution(t *testing.T) {
	rng := newSeeded(7)
	kinds := map[types.QuestKind]int{}
	for i := 0; i < 2000; i++ {
		q := Generate(rng)
		kinds[q.Type.Kind]++
		if q.Type.Kind == types.QuestKill && (q.Type.Count < 1 || q.Type.Count > 5) {
			t.Fatalf("kill count %d out of range", q.Type.Count)
		}
	}
	for _, k := range []types.QuestKind{types.QuestFetch, types.QuestKill} {
		if kinds[k] < 800 || kinds[k] > 1200 {
			t.Errorf("%v generated %d times of 2000", k, kinds[k])
		}
	}
}

func TestGenerate_UniqueIDs(t *testing.T) {
	rng := newSeeded(1)
	seen := map[types.QuestID]bool{}
	for i := 0; i < 100; i++ {
		q := Generate(rng)
		if seen[q.ID] {
			t.Fatal("duplicate quest id")
		}
		seen[q.ID] = true
	}
}

func TestRegistry_InsertGetRemove(t *testing.T) {
	r := NewRegistry()
	q := Generate(fixedRoller{pick: 0})
	r.Insert(q)

	got, ok := r.Get(q.ID)
	if !ok || got != q {
		t.Fatal("inserted quest not found")
	}
	if r.Len() != 1 {
		t.Errorf("len = %d", r.Len())
	}

	removed, ok := r.Remove(q.ID)
	if !ok || removed != q {
		t.Fatal("remove failed")
	}
	if _, ok := r.Get(q.ID); ok {
		t.Error("quest still present after remove")
	}
	if _, ok := r.Remove(q.ID); ok {
		t.Error("second remove should report false")
	}
}

func TestRegistry_MustGetPanics(t *testing.T) {
	r := NewRegistry()
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing quest")
		}
	}()
	r.MustGet(types.NewQuestID())
}

func TestRegistry_RevisionTracksMutations(t *testing.T) {
	r := NewRegistry()
	rev := r.Revision()
	q := Generate(fixedRoller{pick: 0})

	r.Insert(q)
	if r.Revision() == rev {
		t.Error("insert should bump revision")
	}
	rev = r.Revision()
	r.Get(q.ID)
	r.IDs()
	if r.Revision() != rev {
		t.Error("reads must not bump revision")
	}
	r.Remove(q.ID)
	if r.Revision() == rev {
		t.Error("remove should bump revision")
	}
}

func TestRegistry_IDsInInsertionOrder(t *testing.T) {
	r := NewRegistry()
	var want []types.QuestID
	for i := 0; i < 4; i++ {
		q := Generate(fixedRoller{pick: 0})
		r.Insert(q)
		want = append(want, q.ID)
	}
	r.Remove(want[1])
	want = append(want[:1], want[2:]...)

	got := r.IDs()
	if len(got) != len(want) {
		t.Fatalf("got %d ids, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ids[%d] mismatch", i)
		}
	}
}

func TestRegistry_Advance(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		kills     []int
		wantProg  int
		wantDone  bool
		wantFires int
	}{
		{"partial", 3, []int{1}, 1, false, 0},
		{"exact", 2, []int{1, 1}, 2, true, 1},
		{"clamped", 1, []int{3}, 1, true, 1},
		{"no further progress once done", 1, []int{1, 1}, 1, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			q := Generate(fixedRoller{pick: 1, count: tt.count})
			fetch := Generate(fixedRoller{pick: 0})
			r.Insert(q)
			r.Insert(fetch)

			fires := 0
			for _, n := range tt.kills {
				fires += len(r.Advance(types.QuestKill, n))
			}
			if q.Progress != tt.wantProg || q.Completed != tt.wantDone {
				t.Errorf("progress=%d completed=%v", q.Progress, q.Completed)
			}
			if fires != tt.wantFires {
				t.Errorf("completions = %d, want %d", fires, tt.wantFires)
			}
			if fetch.Progress != 0 {
				t.Error("kills must not advance fetch quests")
			}
		})
	}
}

func TestRegistry_SetProgress(t *testing.T) {
	r := NewRegistry()
	q := Generate(fixedRoller{pick: 1, count: 4})
	r.Insert(q)

	if !r.SetProgress(q.ID, 9) || q.Progress != 4 || !q.Completed {
		t.Errorf("progress=%d completed=%v", q.Progress, q.Completed)
	}
	if r.SetProgress(types.NewQuestID(), 1) {
		t.Error("unknown quest should report false")
	}
}
