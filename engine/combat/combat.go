// Package combat runs the rhythm-gated hammer swing and resolves the
// damage it deals.
//
// A swing is timed in beats. Crossing beat 0 arms the hammer head, crossing
// beat 0.5 disarms it and sends one damage event per entity it touched
// while armed, and crossing beat 3.5 ends the animation. A coarse tick that
// crosses several thresholds fires each of them once, in order.
package combat

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/looplab/fsm"
	"github.com/yohamta/donburi"

	"github.com/nathoo/beatquest/engine/events"
	"github.com/nathoo/beatquest/engine/nodes"
	"github.com/nathoo/beatquest/engine/physics"
	"github.com/nathoo/beatquest/engine/player"
	"github.com/nathoo/beatquest/engine/world"
	"github.com/nathoo/beatquest/logging"
	"github.com/nathoo/beatquest/types"
)

// Fray supplies the beat clock and the damage scaling.
type Fray interface {
	TimeToBeat(time.Duration) float64
	ModifyDamage(float32) float32
}

// Beat thresholds of a swing.
const (
	BeatArm     = 0.0
	BeatDisarm  = 0.5
	BeatRecover = 3.5
)

// Swing phases and the events between them.
const (
	PhaseWindup   = "windup"
	PhaseActive   = "active"
	PhaseRecovery = "recovery"
	PhaseDone     = "done"

	eventStrike  = "strike"
	eventRecover = "recover"
	eventFinish  = "finish"
)

// HammerData sits on the hammer head and points at its pivot.
type HammerData struct {
	Damage float32
	Pivot  donburi.Entity
	Reach  float64
}

// RotationData is the pivot's swing angle about its local X axis.
type RotationData struct {
	X float64
}

// AnimationData is present on a pivot while it swings.
type AnimationData struct {
	Time  time.Duration
	Phase *fsm.FSM
}

// DealerData is present on a hammer head while it is armed.
type DealerData struct {
	HitEntities []donburi.Entity
}

// Components.
var (
	Hammer        = donburi.NewComponentType[HammerData]()
	HammerPivot   = donburi.NewComponentType[struct{}]()
	Rotation      = donburi.NewComponentType[RotationData]()
	InAnimation   = donburi.NewComponentType[AnimationData]()
	CanDealDamage = donburi.NewComponentType[DealerData]()
)

func newPhase() *fsm.FSM {
	return fsm.NewFSM(PhaseWindup, fsm.Events{
		{Name: eventStrike, Src: []string{PhaseWindup}, Dst: PhaseActive},
		{Name: eventRecover, Src: []string{PhaseActive}, Dst: PhaseRecovery},
		{Name: eventFinish, Src: []string{PhaseWindup, PhaseActive, PhaseRecovery}, Dst: PhaseDone},
	}, fsm.Callbacks{})
}

// System owns the swing animation and damage resolution.
type System struct {
	w      *world.World
	fray   Fray
	logger *slog.Logger

	Damage events.Queue[types.DamageEvent]
	Kills  events.Queue[types.KillEvent]
}

// New returns a combat system over w.
func New(w *world.World, f Fray, logger *slog.Logger) *System {
	return &System{w: w, fray: f, logger: logging.OrDiscard(logger)}
}

// SpawnHammer creates a pivot at pos and a hammer head attached to it.
func (s *System) SpawnHammer(def types.HammerDef, pos types.Vec3) (pivot, head donburi.Entity) {
	p := s.w.Spawn("Hammer Pivot", world.Transform, HammerPivot, Rotation)
	world.Transform.SetValue(p, world.TransformData{Position: pos})
	h := s.w.Spawn("Hammer Head", world.Transform, world.Collider, Hammer)
	world.Collider.SetValue(h, world.ColliderData{Radius: def.Radius})
	Hammer.SetValue(h, HammerData{Damage: float32(def.Damage), Pivot: p.Entity(), Reach: def.Reach})
	s.w.SetParent(h.Entity(), p.Entity())
	s.Pose(h.Entity())
	return p.Entity(), h.Entity()
}

// SpawnTarget creates a damageable entity with a sphere collider.
func (s *System) SpawnTarget(def types.TargetDef) donburi.Entity {
	name := def.Name
	if name == "" {
		name = def.ID
	}
	e := s.w.Spawn(name, world.Transform, world.Collider, world.Health)
	world.Transform.SetValue(e, world.TransformData{Position: def.Position})
	world.Collider.SetValue(e, world.ColliderData{Radius: def.Radius})
	world.Health.SetValue(e, world.HealthData{Value: float32(def.Health)})
	return e.Entity()
}

// Attack starts a swing on every idle pivot. Pivots already swinging are
// left alone. Returns how many swings started.
func (s *System) Attack() int {
	started := 0
	for _, e := range s.w.Entities(HammerPivot) {
		entry := s.w.Entry(e)
		if entry.HasComponent(InAnimation) {
			continue
		}
		entry.AddComponent(InAnimation)
		InAnimation.SetValue(entry, AnimationData{Phase: newPhase()})
		started++
	}
	return started
}

// FollowCamera moves every pivot to the camera's eye and orientation.
func (s *System) FollowCamera(cam *player.Camera) {
	for _, e := range s.w.Entities(HammerPivot, world.Transform) {
		tr := world.Transform.Get(s.w.Entry(e))
		tr.Position, tr.Yaw, tr.Pitch = cam.Position, cam.Yaw, cam.Pitch
	}
}

// Animate advances every swinging hammer by dt.
func (s *System) Animate(dt time.Duration) {
	for _, head := range s.w.Entities(Hammer) {
		s.animate(head, dt)
		s.Pose(head)
	}
}

func (s *System) animate(head donburi.Entity, dt time.Duration) {
	h := Hammer.Get(s.w.Entry(head))
	pivot, ok := s.w.Lookup(h.Pivot)
	if !ok || !pivot.HasComponent(InAnimation) {
		return
	}
	anim := InAnimation.Get(pivot)
	prev := s.fray.TimeToBeat(anim.Time)
	anim.Time += dt
	beat := s.fray.TimeToBeat(anim.Time)

	if Crossed(prev, beat, BeatArm) && anim.Phase.Can(eventStrike) {
		s.advance(anim.Phase, eventStrike)
		if he := s.w.Entry(head); !he.HasComponent(CanDealDamage) {
			he.AddComponent(CanDealDamage)
		}
	}
	if Crossed(prev, beat, BeatDisarm) && anim.Phase.Can(eventRecover) {
		s.advance(anim.Phase, eventRecover)
		s.disarm(head)
	}
	if Crossed(prev, beat, BeatRecover) && anim.Phase.Can(eventFinish) {
		s.advance(anim.Phase, eventFinish)
		pivot.RemoveComponent(InAnimation)
		Rotation.Get(pivot).X = 0
		return
	}
	Rotation.Get(pivot).X = Angle(beat)
}

func (s *System) disarm(head donburi.Entity) {
	he := s.w.Entry(head)
	if !he.HasComponent(CanDealDamage) {
		return
	}
	hits := CanDealDamage.Get(he).HitEntities
	dmg := s.fray.ModifyDamage(Hammer.Get(he).Damage)
	he.RemoveComponent(CanDealDamage)
	for _, victim := range hits {
		s.Damage.Send(types.DamageEvent{Victim: victim, Damage: dmg})
	}
	if len(hits) > 0 {
		s.logger.Debug("swing landed", "hits", len(hits), "damage", dmg)
	}
}

func (s *System) advance(m *fsm.FSM, event string) {
	if err := m.Event(context.Background(), event); err != nil {
		s.logger.Warn("swing phase", "event", event, "err", err)
	}
}

// Pose places the hammer head at its pivot, swung by the pivot rotation.
// At rest the head is straight up; a quarter turn down points it ahead.
func (s *System) Pose(head donburi.Entity) {
	he, ok := s.w.Lookup(head)
	if !ok {
		return
	}
	h := Hammer.Get(he)
	pivot, ok := s.w.Lookup(h.Pivot)
	if !ok {
		return
	}
	pt := world.Transform.Get(pivot)
	angle := Rotation.Get(pivot).X
	dir := player.Direction(pt.Yaw, pt.Pitch+math.Pi/2+angle)
	world.Transform.Get(he).Position = physics.Add(pt.Position, physics.Scale(dir, h.Reach))
}

// Swinging reports whether pivot is mid-swing, and its phase.
func (s *System) Swinging(pivot donburi.Entity) (string, bool) {
	entry, ok := s.w.Lookup(pivot)
	if !ok || !entry.HasComponent(InAnimation) {
		return "", false
	}
	return InAnimation.Get(entry).Phase.Current(), true
}

// Beat returns the swing position of pivot in beats and its current angle.
func (s *System) Beat(pivot donburi.Entity) (beat, angle float64, ok bool) {
	entry, found := s.w.Lookup(pivot)
	if !found || !entry.HasComponent(InAnimation) {
		return 0, 0, false
	}
	return s.fray.TimeToBeat(InAnimation.Get(entry).Time), Rotation.Get(entry).X, true
}

// Armed reports whether head can currently deal damage.
func (s *System) Armed(head donburi.Entity) bool {
	return s.w.Has(head, CanDealDamage)
}

// Collide records started contacts between an armed head and a damageable
// entity, in either order.
func (s *System) Collide(evs []types.CollisionEvent) {
	for _, ev := range evs {
		if !ev.Started {
			continue
		}
		s.record(ev.A, ev.B)
		s.record(ev.B, ev.A)
	}
}

func (s *System) record(dealer, victim donburi.Entity) {
	de, ok := s.w.Lookup(dealer)
	if !ok || !de.HasComponent(CanDealDamage) {
		return
	}
	if !s.w.Has(victim, world.Health) {
		return
	}
	d := CanDealDamage.Get(de)
	d.HitEntities = append(d.HitEntities, victim)
}

// DealDamage applies every queued damage event. A victim whose health
// drops to zero or below from positive damage is destroyed with its
// subtree and reported as killed; later events for it are skipped.
func (s *System) DealDamage() []types.KillEvent {
	var kills []types.KillEvent
	dead := map[donburi.Entity]bool{}
	for _, ev := range s.Damage.Drain() {
		if dead[ev.Victim] {
			continue
		}
		entry, ok := s.w.Lookup(ev.Victim)
		if !ok || !entry.HasComponent(world.Health) {
			continue
		}
		hp := world.Health.Get(entry)
		hp.Value -= ev.Damage
		if ev.Damage > 0 && hp.Value <= 0 {
			k := types.KillEvent{Victim: ev.Victim, Name: s.w.NameOf(ev.Victim)}
			s.w.DestroyRecursive(ev.Victim)
			dead[ev.Victim] = true
			kills = append(kills, k)
			s.Kills.Send(k)
			s.logger.Info("target destroyed", "name", k.Name)
		}
	}
	return kills
}

// Crossed reports whether threshold lies in the half-open interval
// [prev, beat).
func Crossed(prev, beat, threshold float64) bool {
	return prev <= threshold && threshold < beat
}

// Angle is the pivot rotation at a beat: a quick quarter-turn strike over
// [0, 0.5), a slow return over [0.5, 3.5), and rest otherwise.
func Angle(beat float64) float64 {
	switch {
	case beat >= BeatArm && beat < BeatDisarm:
		c := math.Cos(nodes.MapRange(beat, BeatArm, BeatDisarm, 0, math.Pi/2))
		return nodes.MapRange(c, 0, 1, -math.Pi/2, 0)
	case beat >= BeatDisarm && beat < BeatRecover:
		c := math.Cos(nodes.MapRange(beat, BeatDisarm, BeatRecover, 0, math.Pi))
		return nodes.MapRange(c, -1, 1, 0, -math.Pi/2)
	default:
		return 0
	}
}
