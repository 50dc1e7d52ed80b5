package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/beatquest/engine/notes"
	"github.com/nathoo/beatquest/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Commands the engine has handlers for.
var knownCommands = map[string]bool{
	notes.CommandPing: true,
	notes.CommandKill: true,
}

// validate checks the compiled scenario for consistency.
func validate(sc *types.Scenario) error {
	ve := &ValidationError{}

	// Title required.
	if sc.Title == "" {
		ve.Errors = append(ve.Errors, "Scenario.title is required")
	}

	// Tempo.
	if sc.Tempo.BPM < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("Tempo.bpm must not be negative, got %v", sc.Tempo.BPM))
	}
	if sc.Tempo.Multiplier < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("Tempo.multiplier must not be negative, got %v", sc.Tempo.Multiplier))
	}

	// Hammer.
	if sc.Hammer.Damage < 0 {
		ve.Errors = append(ve.Errors, "Hammer.damage must not be negative")
	}
	if sc.Hammer.Reach < 0 || sc.Hammer.Radius < 0 {
		ve.Errors = append(ve.Errors, "Hammer.reach and Hammer.radius must not be negative")
	}

	// Givers: unique ids.
	seen := map[string]bool{}
	for _, g := range sc.Givers {
		if seen[g.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("giver %q defined more than once", g.ID))
		}
		seen[g.ID] = true
		if g.Radius < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("giver %q has a negative radius", g.ID))
		}
	}

	// Targets: unique ids, positive health.
	seen = map[string]bool{}
	for _, t := range sc.Targets {
		if seen[t.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("target %q defined more than once", t.ID))
		}
		seen[t.ID] = true
		if t.Health <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("target %q needs positive health, got %v", t.ID, t.Health))
		}
		if t.Radius < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("target %q has a negative radius", t.ID))
		}
	}

	// Commands: known notes, non-empty, unique names.
	seen = map[string]bool{}
	for _, c := range sc.Commands {
		if seen[c.Name] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("command %q defined more than once", c.Name))
		}
		seen[c.Name] = true
		if len(c.Notes) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("command %q has no notes", c.Name))
		}
		for _, n := range c.Notes {
			if !notes.Valid(notes.Note(n)) {
				ve.Errors = append(ve.Errors, fmt.Sprintf("command %q uses unknown note %q", c.Name, n))
			}
		}
		if !knownCommands[c.Name] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("command %q has no handler and will only be traced", c.Name))
		}
	}

	if len(sc.Givers) == 0 {
		ve.Warnings = append(ve.Warnings, "scenario has no quest givers")
	}

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
