package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/beatquest/types"
)

// validScenario returns a minimal valid Scenario for testing.
func validScenario() *types.Scenario {
	return &types.Scenario{
		Title:   "Test",
		Givers:  []types.GiverDef{{ID: "g"}},
		Targets: []types.TargetDef{{ID: "t", Name: "T", Health: 1}},
		Commands: []types.CommandDef{
			{Name: "ping", Notes: []string{"C4", "E4", "G4"}},
		},
	}
}

func TestValidate_ValidScenario(t *testing.T) {
	if err := validate(validScenario()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.Scenario)
		want   string
	}{
		{"empty title", func(sc *types.Scenario) { sc.Title = "" }, "title is required"},
		{"negative bpm", func(sc *types.Scenario) { sc.Tempo.BPM = -1 }, "Tempo.bpm"},
		{"negative multiplier", func(sc *types.Scenario) { sc.Tempo.Multiplier = -2 }, "Tempo.multiplier"},
		{"negative damage", func(sc *types.Scenario) { sc.Hammer.Damage = -1 }, "Hammer.damage"},
		{"duplicate giver", func(sc *types.Scenario) {
			sc.Givers = append(sc.Givers, types.GiverDef{ID: "g"})
		}, `giver "g" defined more than once`},
		{"duplicate target", func(sc *types.Scenario) {
			sc.Targets = append(sc.Targets, types.TargetDef{ID: "t", Health: 1})
		}, `target "t" defined more than once`},
		{"zero health", func(sc *types.Scenario) { sc.Targets[0].Health = 0 }, "positive health"},
		{"empty command", func(sc *types.Scenario) { sc.Commands[0].Notes = nil }, "has no notes"},
		{"unknown note", func(sc *types.Scenario) { sc.Commands[0].Notes = []string{"X1"} }, `unknown note "X1"`},
		{"duplicate command", func(sc *types.Scenario) {
			sc.Commands = append(sc.Commands, types.CommandDef{Name: "ping", Notes: []string{"C4"}})
		}, `command "ping" defined more than once`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := validScenario()
			tt.mutate(sc)
			err := validate(sc)
			if err == nil {
				t.Fatal("expected error")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			assertContains(t, ve.Errors, tt.want)
		})
	}
}

func TestValidate_UnhandledCommand_Warning(t *testing.T) {
	sc := validScenario()
	sc.Commands = append(sc.Commands, types.CommandDef{Name: "dance", Notes: []string{"A4"}})
	if err := validate(sc); err != nil {
		t.Fatalf("warnings must not fail validation: %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{Errors: []string{"one", "two"}}
	msg := ve.Error()
	if !strings.Contains(msg, "2 error(s)") || !strings.Contains(msg, "two") {
		t.Errorf("Error() = %q", msg)
	}
}

func assertContains(t *testing.T, strs []string, substr string) {
	t.Helper()
	for _, s := range strs {
		if strings.Contains(s, substr) {
			return
		}
	}
	t.Errorf("expected one of %v to contain %q", strs, substr)
}
