// Package questing runs the quest giver flow and keeps the quest screen in
// step with the registry.
//
// A giver is idle until the player interacts with it. Interaction generates
// a quest, records it on the giver and in the registry, tracks it on the
// screen and opens a proposal menu. Declining removes the quest everywhere
// and frees the giver; accepting just closes the proposal.
package questing

import (
	"fmt"
	"log/slog"

	"github.com/yohamta/donburi"

	"github.com/nathoo/beatquest/engine/input"
	"github.com/nathoo/beatquest/engine/menu"
	"github.com/nathoo/beatquest/engine/nodes"
	"github.com/nathoo/beatquest/engine/physics"
	"github.com/nathoo/beatquest/engine/player"
	"github.com/nathoo/beatquest/engine/quest"
	"github.com/nathoo/beatquest/engine/world"
	"github.com/nathoo/beatquest/logging"
	"github.com/nathoo/beatquest/types"
)

// InteractRange is how far the look ray reaches for givers.
const InteractRange = 3.0

// Deps are the collaborators a System needs.
type Deps struct {
	World    *world.World
	Tree     *nodes.Tree
	Menus    *menu.Stack
	Input    *input.State
	Player   *input.Context
	Registry *quest.Registry
	Rng      quest.Roller
	Caster   physics.RayCaster
	Camera   *player.Camera
	Logger   *slog.Logger

	// ScreenContext is the quest screen's own input context.
	ScreenContext *input.Context
	// ProposalContext builds the context for each new proposal.
	ProposalContext func() *input.Context
}

// System owns the quest screen and the proposal flow.
type System struct {
	Deps
	Screen *Screen

	lastRevision uint64
	selections   []types.QuestID
}

// DefaultProposalContext binds accept to E and decline to space.
func DefaultProposalContext() *input.Context {
	return input.NewContext("proposal").
		Bind(types.ActionAccept, "e").
		Bind(types.ActionDecline, "space")
}

// New spawns the hidden quest screen menu and returns the system.
func New(d Deps) *System {
	d.Logger = logging.OrDiscard(d.Logger)
	if d.ProposalContext == nil {
		d.ProposalContext = DefaultProposalContext
	}
	if d.ScreenContext == nil {
		d.ScreenContext = input.NewContext("quest_screen").Bind(types.ActionCloseMenu, "j")
	}
	root := d.Menus.Spawn("Quest Screen", d.ScreenContext, menu.HideWhenClosed)
	return &System{
		Deps:         d,
		Screen:       NewScreen(d.Tree, d.Registry, root),
		lastRevision: d.Registry.Revision(),
	}
}

// SpawnGiver places an idle quest giver with a sphere collider.
func (s *System) SpawnGiver(name string, pos types.Vec3, radius float64) donburi.Entity {
	entry := s.World.Spawn(name, world.Transform, world.Collider, Giver)
	world.Transform.SetValue(entry, world.TransformData{Position: pos})
	world.Collider.SetValue(entry, world.ColliderData{Radius: radius})
	Giver.SetValue(entry, NewGiverData())
	return entry.Entity()
}

// FindGiver casts the camera's look ray and returns the first quest giver
// within InteractRange.
func (s *System) FindGiver() (donburi.Entity, bool) {
	return s.Caster.CastRay(s.Camera.Ray(), InteractRange, func(e donburi.Entity) bool {
		return s.World.Has(e, Giver)
	})
}

// Interact handles one interact press: it finds a giver and proposes a
// quest from it. The press is consumed so the proposal it opens cannot
// react to it.
func (s *System) Interact() (types.QuestID, bool) {
	if !s.Input.ConsumeAction(s.Player, types.ActionInteract) {
		return types.QuestID{}, false
	}
	giver, ok := s.FindGiver()
	if !ok {
		return types.QuestID{}, false
	}
	return s.Propose(giver)
}

// Propose offers a fresh quest from giver. A giver that already has a
// quest out does nothing.
func (s *System) Propose(giver donburi.Entity) (types.QuestID, bool) {
	entry, ok := s.World.Lookup(giver)
	if !ok || !entry.HasComponent(Giver) {
		panic(fmt.Sprintf("questing: %v is not a quest giver", giver))
	}
	g := Giver.Get(entry)
	if g.Offered() {
		return types.QuestID{}, false
	}

	q := quest.Generate(s.Rng)
	s.Registry.Insert(q)
	s.Screen.Track(q.ID)
	g.offer(q.ID)

	ctx := s.ProposalContext()
	p := s.Menus.Spawn(fmt.Sprintf("Quest Proposal for %s", q.ID), ctx, menu.DespawnWhenClosed)
	pe := s.World.Entry(p)
	pe.AddComponent(Proposal)
	Proposal.SetValue(pe, ProposalData{QuestID: q.ID})
	text := s.Tree.Spawn("Proposal Text", nodes.Text, p)
	s.Tree.SetText(text, ProposalText(q))
	s.Menus.Push(p)

	s.Logger.Info("quest offered", "quest", q.ID, "name", q.Name, "kind", q.Type.Kind, "giver", s.World.NameOf(giver))
	return q.ID, true
}

// Proposals returns the open proposal entities.
func (s *System) Proposals() []donburi.Entity {
	return s.World.Entities(Proposal)
}

// ProposalQuest returns the quest a proposal entity offers.
func (s *System) ProposalQuest(e donburi.Entity) (types.QuestID, bool) {
	entry, ok := s.World.Lookup(e)
	if !ok || !entry.HasComponent(Proposal) {
		return types.QuestID{}, false
	}
	return Proposal.Get(entry).QuestID, true
}

// ResolveDeclines finishes the quest of every proposal whose context saw
// decline this tick. The key is left unconsumed so the proposal menu can
// close on it afterwards.
func (s *System) ResolveDeclines() []types.QuestID {
	var declined []types.QuestID
	for _, p := range s.Proposals() {
		ctx, ok := s.Menus.Context(p)
		if !ok || !s.Input.ActionJustPressed(ctx, types.ActionDecline) {
			continue
		}
		id, ok := s.ProposalQuest(p)
		if !ok {
			continue
		}
		s.Finish(id)
		s.Logger.Info("quest declined", "quest", id)
		declined = append(declined, id)
	}
	return declined
}

// Finish removes a quest from the registry and the screen and frees the
// giver that offered it. Panics when no giver holds the quest.
func (s *System) Finish(id types.QuestID) {
	s.Registry.Remove(id)
	s.Screen.Untrack(id)
	for _, e := range s.World.Entities(Giver) {
		g := Giver.Get(s.World.Entry(e))
		if g.GivenQuest != nil && *g.GivenQuest == id {
			g.release()
			return
		}
	}
	panic(fmt.Sprintf("questing: no giver holds quest %s", id))
}

// GiverOf returns the giver data for e.
func (s *System) GiverOf(e donburi.Entity) (*GiverData, bool) {
	entry, ok := s.World.Lookup(e)
	if !ok || !entry.HasComponent(Giver) {
		return nil, false
	}
	return Giver.Get(entry), true
}

// SyncScreen reconciles screen nodes with the tracked set.
func (s *System) SyncScreen() {
	added, removed := s.Screen.Sync()
	for _, id := range added {
		s.Logger.Debug("quest node added", "quest", id)
	}
	for _, id := range removed {
		s.Logger.Debug("quest node removed", "quest", id)
	}
}

// RefreshProgress re-renders progress when the registry changed since the
// last call. Reports whether it rendered.
func (s *System) RefreshProgress() bool {
	rev := s.Registry.Revision()
	if rev == s.lastRevision {
		return false
	}
	s.lastRevision = rev
	s.Screen.Refresh()
	return true
}

// QueueSelect asks for id's detail panel to be shown on the next
// ApplySelections.
func (s *System) QueueSelect(id types.QuestID) {
	s.selections = append(s.selections, id)
}

// ApplySelections applies queued selections in order.
func (s *System) ApplySelections() {
	for _, id := range s.selections {
		s.Screen.Select(id)
	}
	s.selections = s.selections[:0]
}

// ScreenOpen reports whether the quest screen is on the menu stack.
func (s *System) ScreenOpen() bool {
	return s.Menus.Contains(s.Screen.Root)
}

// CompleteKills advances kill quests by n and returns the quests that
// completed.
func (s *System) CompleteKills(n int) []*types.Quest {
	done := s.Registry.Advance(types.QuestKill, n)
	for _, q := range done {
		s.Logger.Info("quest completed", "quest", q.ID, "name", q.Name)
	}
	return done
}

// PendingAccepts returns the quests whose proposal saw accept this tick,
// without consuming the press.
func (s *System) PendingAccepts() []types.QuestID {
	var ids []types.QuestID
	for _, p := range s.Proposals() {
		ctx, ok := s.Menus.Context(p)
		if !ok || !s.Input.ActionJustPressed(ctx, types.ActionAccept) {
			continue
		}
		if id, ok := s.ProposalQuest(p); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
