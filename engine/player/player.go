// Package player holds the first-person camera: orientation, movement and
// the look ray used for interaction.
package player

import (
	"math"
	"time"

	"github.com/nathoo/beatquest/engine/physics"
	"github.com/nathoo/beatquest/types"
)

// Defaults used when a scenario leaves the player tuning unset.
const (
	DefaultSpeed       = 10.0
	DefaultSprint      = 2.0
	DefaultSensitivity = 0.003
	DefaultFOV         = 70.0
)

// Axes is the WASD input composed into forward/right components in [-1, 1].
type Axes struct {
	Forward float64
	Right   float64
}

// Camera is the player's eye. Yaw 0 looks down -Z; positive pitch looks up.
type Camera struct {
	Position    types.Vec3
	Yaw         float64
	Pitch       float64
	Speed       float64
	Sprint      float64
	Sensitivity float64
	FOV         float64
}

// New builds a camera from a scenario definition, filling in defaults.
func New(def types.PlayerDef) *Camera {
	c := &Camera{
		Position:    def.Position,
		Yaw:         def.Yaw,
		Speed:       def.Speed,
		Sprint:      def.Sprint,
		Sensitivity: def.Sensitivity,
		FOV:         DefaultFOV,
	}
	if c.Speed == 0 {
		c.Speed = DefaultSpeed
	}
	if c.Sprint == 0 {
		c.Sprint = DefaultSprint
	}
	if c.Sensitivity == 0 {
		c.Sensitivity = DefaultSensitivity
	}
	c.Pitch = clampPitch(def.Pitch)
	return c
}

// Rotate turns the camera by a pointer delta scaled by sensitivity.
// Pitch is clamped to straight up and straight down.
func (c *Camera) Rotate(dx, dy float64) {
	c.Yaw -= dx * c.Sensitivity
	c.Pitch = clampPitch(c.Pitch - dy*c.Sensitivity)
}

// Face sets the orientation directly, in radians. Pitch is clamped.
func (c *Camera) Face(yaw, pitch float64) {
	c.Yaw = yaw
	c.Pitch = clampPitch(pitch)
}

// Forward is the unit look direction.
func (c *Camera) Forward() types.Vec3 {
	return Direction(c.Yaw, c.Pitch)
}

// Right is the unit strafe direction on the ground plane.
func (c *Camera) Right() types.Vec3 {
	return types.Vec3{X: math.Cos(c.Yaw), Z: -math.Sin(c.Yaw)}
}

// Ray is the look ray from the eye along Forward.
func (c *Camera) Ray() types.Ray {
	return types.Ray{Origin: c.Position, Direction: c.Forward()}
}

// Move walks on the ground plane. Diagonal input is normalized so it is no
// faster than a straight walk.
func (c *Camera) Move(a Axes, sprint bool, dt time.Duration) {
	flatFwd := types.Vec3{X: -math.Sin(c.Yaw), Z: -math.Cos(c.Yaw)}
	dir := physics.Add(physics.Scale(flatFwd, a.Forward), physics.Scale(c.Right(), a.Right))
	dir = physics.Normalize(dir)
	speed := c.Speed
	if sprint {
		speed *= c.Sprint
	}
	c.Position = physics.Add(c.Position, physics.Scale(dir, speed*dt.Seconds()))
}

// Direction returns the unit vector for a yaw and pitch.
func Direction(yaw, pitch float64) types.Vec3 {
	return types.Vec3{
		X: -math.Sin(yaw) * math.Cos(pitch),
		Y: math.Sin(pitch),
		Z: -math.Cos(yaw) * math.Cos(pitch),
	}
}

func clampPitch(p float64) float64 {
	return min(max(p, -math.Pi/2), math.Pi/2)
}
