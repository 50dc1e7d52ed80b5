// Package physics answers look-ray queries and reports when sphere
// colliders start or stop touching.
package physics

import (
	"math"

	"github.com/yohamta/donburi"

	"github.com/nathoo/beatquest/engine/events"
	"github.com/nathoo/beatquest/engine/world"
	"github.com/nathoo/beatquest/types"
)

// RayCaster finds the nearest entity hit by a ray.
type RayCaster interface {
	CastRay(ray types.Ray, maxDist float64, pred func(donburi.Entity) bool) (donburi.Entity, bool)
}

type pair struct {
	a, b donburi.Entity
}

// Space tracks contacts between every entity with a Transform and Collider.
type Space struct {
	w          *world.World
	contacts   map[pair]bool
	Collisions events.Queue[types.CollisionEvent]
}

// NewSpace returns a space over w with no contacts.
func NewSpace(w *world.World) *Space {
	return &Space{w: w, contacts: map[pair]bool{}}
}

// CastRay returns the closest collider within maxDist along ray for which
// pred holds. A nil pred accepts everything.
func (s *Space) CastRay(ray types.Ray, maxDist float64, pred func(donburi.Entity) bool) (donburi.Entity, bool) {
	best := donburi.Null
	bestDist := math.Inf(1)
	for _, e := range s.w.Entities(world.Transform, world.Collider) {
		if pred != nil && !pred(e) {
			continue
		}
		entry := s.w.Entry(e)
		center := world.Transform.Get(entry).Position
		radius := world.Collider.Get(entry).Radius
		d, ok := raySphere(ray, center, radius)
		if !ok || d > maxDist || d >= bestDist {
			continue
		}
		best, bestDist = e, d
	}
	return best, best != donburi.Null
}

// Step compares current overlaps with the previous step and sends a
// started event for each new contact and a stopped event for each ended
// one. Contacts with destroyed entities are dropped without an event.
func (s *Space) Step() {
	ents := s.w.Entities(world.Transform, world.Collider)
	touching := map[pair]bool{}
	for i := 0; i < len(ents); i++ {
		for j := i + 1; j < len(ents); j++ {
			if !s.overlaps(ents[i], ents[j]) {
				continue
			}
			p := pair{ents[i], ents[j]}
			if s.contacts[pair{p.b, p.a}] {
				p = pair{p.b, p.a}
			}
			touching[p] = true
			if !s.contacts[p] {
				s.Collisions.Send(types.CollisionEvent{A: p.a, B: p.b, Started: true})
			}
		}
	}
	for p := range s.contacts {
		if touching[p] {
			continue
		}
		if s.w.Valid(p.a) && s.w.Valid(p.b) {
			s.Collisions.Send(types.CollisionEvent{A: p.a, B: p.b, Started: false})
		}
	}
	s.contacts = touching
}

// Touching reports whether a and b were in contact after the last step.
func (s *Space) Touching(a, b donburi.Entity) bool {
	return s.contacts[pair{a, b}] || s.contacts[pair{b, a}]
}

func (s *Space) overlaps(a, b donburi.Entity) bool {
	ea, eb := s.w.Entry(a), s.w.Entry(b)
	pa := world.Transform.Get(ea).Position
	pb := world.Transform.Get(eb).Position
	r := world.Collider.Get(ea).Radius + world.Collider.Get(eb).Radius
	return Dist(pa, pb) <= r
}

// raySphere returns the distance along ray to the first intersection with
// the sphere. A ray starting inside the sphere hits at distance 0.
func raySphere(ray types.Ray, c types.Vec3, r float64) (float64, bool) {
	oc := Sub(ray.Origin, c)
	b := Dot(oc, ray.Direction)
	cc := Dot(oc, oc) - r*r
	if cc <= 0 {
		return 0, true
	}
	disc := b*b - cc
	if disc < 0 || b > 0 {
		return 0, false
	}
	return -b - math.Sqrt(disc), true
}

// Sub returns a - b.
func Sub(a, b types.Vec3) types.Vec3 {
	return types.Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

// Add returns a + b.
func Add(a, b types.Vec3) types.Vec3 {
	return types.Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

// Scale returns v * k.
func Scale(v types.Vec3, k float64) types.Vec3 {
	return types.Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Dot returns the dot product of a and b.
func Dot(a, b types.Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Length returns |v|.
func Length(v types.Vec3) float64 {
	return math.Sqrt(Dot(v, v))
}

// Dist returns |a - b|.
func Dist(a, b types.Vec3) float64 {
	return Length(Sub(a, b))
}

// Normalize returns v scaled to unit length, or the zero vector.
func Normalize(v types.Vec3) types.Vec3 {
	l := Length(v)
	if l == 0 {
		return types.Vec3{}
	}
	return Scale(v, 1/l)
}
