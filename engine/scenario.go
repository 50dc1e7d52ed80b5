package engine

import (
	"github.com/nathoo/beatquest/engine/fray"
	"github.com/nathoo/beatquest/types"
)

// Defaults applied to zero-valued scenario fields.
const (
	DefaultHammerDamage = 1.0
	DefaultHammerReach  = 1.5
	DefaultHammerRadius = 0.3
	DefaultGiverRadius  = 0.5
	DefaultTargetRadius = 0.5
)

// ApplyDefaults fills in every unset tuning value of sc.
func ApplyDefaults(sc types.Scenario) types.Scenario {
	if sc.Tempo.BPM <= 0 {
		sc.Tempo.BPM = fray.DefaultBPM
	}
	if sc.Tempo.Multiplier == 0 {
		sc.Tempo.Multiplier = fray.DefaultMultiplier
	}
	if sc.Hammer.Damage == 0 {
		sc.Hammer.Damage = DefaultHammerDamage
	}
	if sc.Hammer.Reach == 0 {
		sc.Hammer.Reach = DefaultHammerReach
	}
	if sc.Hammer.Radius == 0 {
		sc.Hammer.Radius = DefaultHammerRadius
	}
	givers := make([]types.GiverDef, len(sc.Givers))
	for i, g := range sc.Givers {
		if g.Radius == 0 {
			g.Radius = DefaultGiverRadius
		}
		givers[i] = g
	}
	sc.Givers = givers
	targets := make([]types.TargetDef, len(sc.Targets))
	for i, t := range sc.Targets {
		if t.Radius == 0 {
			t.Radius = DefaultTargetRadius
		}
		targets[i] = t
	}
	sc.Targets = targets
	return sc
}
