// Package quest owns every quest record. Other systems hold only quest IDs
// and look records up here.
package quest

import (
	"fmt"
	"slices"

	"github.com/nathoo/beatquest/types"
)

// Roller is the randomness quest generation needs.
type Roller interface {
	WeightedSelect(weights []int) int
	Range(lo, hi int) int
}

// Registry maps quest IDs to quests. Every mutation bumps the revision so
// observers can tell the registry changed since they last looked.
type Registry struct {
	quests   map[types.QuestID]*types.Quest
	order    []types.QuestID
	revision uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{quests: map[types.QuestID]*types.Quest{}}
}

// Generate builds a new random quest without inserting it. Fetch and Kill
// are equally likely; a Kill quest needs between 1 and 5 kills.
func Generate(r Roller) *types.Quest {
	q := &types.Quest{ID: types.NewQuestID()}
	switch r.WeightedSelect([]int{50, 50}) {
	case 0:
		q.Type = types.QuestType{Kind: types.QuestFetch}
		q.Name = "Awesome Fetch Quest"
		q.Description = "imps stole my orange cube... pwease go get it back!!"
	default:
		n := r.Range(1, 5)
		q.Type = types.QuestType{Kind: types.QuestKill, Count: n}
		q.Name = "Awesome Kill Quest"
		q.Description = fmt.Sprintf("imps killed my grandma... pwease go take revenge on those darn imps for me... kill %d!!", n)
	}
	return q
}

// Insert adds q. Inserting an existing ID replaces the record in place.
func (r *Registry) Insert(q *types.Quest) {
	if _, ok := r.quests[q.ID]; !ok {
		r.order = append(r.order, q.ID)
	}
	r.quests[q.ID] = q
	r.revision++
}

// Get returns the quest with id.
func (r *Registry) Get(id types.QuestID) (*types.Quest, bool) {
	q, ok := r.quests[id]
	return q, ok
}

// MustGet returns the quest with id and panics when it is missing. Callers
// use it where the quest's presence is an invariant.
func (r *Registry) MustGet(id types.QuestID) *types.Quest {
	q, ok := r.quests[id]
	if !ok {
		panic(fmt.Sprintf("quest: %s not in registry", id))
	}
	return q
}

// Remove deletes and returns the quest with id.
func (r *Registry) Remove(id types.QuestID) (*types.Quest, bool) {
	q, ok := r.quests[id]
	if !ok {
		return nil, false
	}
	delete(r.quests, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	r.revision++
	return q, true
}

// IDs returns every quest ID in insertion order.
func (r *Registry) IDs() []types.QuestID {
	return slices.Clone(r.order)
}

// Len returns the number of quests.
func (r *Registry) Len() int {
	return len(r.quests)
}

// Revision returns the mutation counter.
func (r *Registry) Revision() uint64 {
	return r.revision
}

// Advance adds n progress to every unfinished quest of kind, clamping at the
// maximum and marking quests that reach it completed. Returns the quests
// that completed.
func (r *Registry) Advance(kind types.QuestKind, n int) []*types.Quest {
	if n <= 0 {
		return nil
	}
	var done []*types.Quest
	changed := false
	for _, id := range r.order {
		q := r.quests[id]
		if q.Completed || q.Type.Kind != kind {
			continue
		}
		q.Progress = min(q.Progress+n, q.Type.MaxProgress())
		changed = true
		if q.Progress == q.Type.MaxProgress() {
			q.Completed = true
			done = append(done, q)
		}
	}
	if changed {
		r.revision++
	}
	return done
}

// SetProgress sets a quest's progress, clamped to its range.
func (r *Registry) SetProgress(id types.QuestID, p int) bool {
	q, ok := r.quests[id]
	if !ok {
		return false
	}
	q.Progress = min(max(p, 0), q.Type.MaxProgress())
	q.Completed = q.Progress == q.Type.MaxProgress()
	r.revision++
	return true
}
