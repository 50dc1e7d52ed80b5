// Package fray maps elapsed animation time onto the music's beat grid and
// scales damage by how the fight is going.
package fray

import "time"

// Defaults for a scenario without a tempo block.
const (
	DefaultBPM        = 120.0
	DefaultLead       = 0.0
	DefaultMultiplier = 1.0
)

// Metronome is a fixed-tempo fray.
type Metronome struct {
	BPM        float64
	Lead       float64 // beats between the swing starting and beat 0
	Multiplier float64
}

// New returns a metronome, substituting defaults for zero BPM and
// multiplier.
func New(bpm, lead, multiplier float64) Metronome {
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	if multiplier == 0 {
		multiplier = DefaultMultiplier
	}
	return Metronome{BPM: bpm, Lead: lead, Multiplier: multiplier}
}

// TimeToBeat converts elapsed time into beats, offset by the lead.
func (m Metronome) TimeToBeat(d time.Duration) float64 {
	return d.Seconds()*m.BPM/60 - m.Lead
}

// BeatToTime is the inverse of TimeToBeat.
func (m Metronome) BeatToTime(beat float64) time.Duration {
	return time.Duration((beat + m.Lead) * 60 / m.BPM * float64(time.Second))
}

// ModifyDamage scales base damage.
func (m Metronome) ModifyDamage(x float32) float32 {
	return x * float32(m.Multiplier)
}

// BeatLength is the duration of one beat.
func (m Metronome) BeatLength() time.Duration {
	return time.Duration(60 / m.BPM * float64(time.Second))
}
