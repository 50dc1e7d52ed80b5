package fray

import (
	"math"
	"testing"
	"time"
)

func TestTimeToBeat(t *testing.T) {
	tests := []struct {
		name string
		m    Metronome
		d    time.Duration
		want float64
	}{
		{"zero", New(120, 0, 1), 0, 0},
		{"one beat at 120", New(120, 0, 1), 500 * time.Millisecond, 1},
		{"lead shifts", New(60, 0.25, 1), time.Second, 0.75},
		{"lead before zero", New(60, 0.25, 1), 0, -0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TimeToBeat(tt.d); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TimeToBeat(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestBeatToTime_RoundTrip(t *testing.T) {
	m := New(90, 0.5, 1)
	for _, beat := range []float64{-0.5, 0, 0.5, 3.5} {
		got := m.TimeToBeat(m.BeatToTime(beat))
		if math.Abs(got-beat) > 1e-6 {
			t.Errorf("round trip %v -> %v", beat, got)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	m := New(0, 0, 0)
	if m.BPM != DefaultBPM || m.Multiplier != DefaultMultiplier {
		t.Errorf("defaults not applied: %+v", m)
	}
	if m.BeatLength() != 500*time.Millisecond {
		t.Errorf("beat length = %v", m.BeatLength())
	}
}

func TestModifyDamage(t *testing.T) {
	if got := New(120, 0, 1.5).ModifyDamage(10); got != 15 {
		t.Errorf("ModifyDamage = %v, want 15", got)
	}
}
