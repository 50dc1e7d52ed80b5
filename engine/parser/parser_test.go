package parser

import (
	"testing"

	"github.com/nathoo/beatquest/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Intent{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  types.Intent{},
		},

		// Basic verbs
		{
			name:  "interact",
			input: "interact",
			want:  types.Intent{Verb: "interact"},
		},
		{
			name:  "attack",
			input: "attack",
			want:  types.Intent{Verb: "attack"},
		},

		// Verb aliases
		{
			name:  "e → interact",
			input: "e",
			want:  types.Intent{Verb: "interact"},
		},
		{
			name:  "yes → accept",
			input: "yes",
			want:  types.Intent{Verb: "accept"},
		},
		{
			name:  "n → decline",
			input: "n",
			want:  types.Intent{Verb: "decline"},
		},
		{
			name:  "swing → attack",
			input: "swing",
			want:  types.Intent{Verb: "attack"},
		},
		{
			name:  "backquote → staff",
			input: "`",
			want:  types.Intent{Verb: "staff"},
		},
		{
			name:  "play C4 → note",
			input: "play C4",
			want:  types.Intent{Verb: "note", Object: "C4"},
		},

		// Multi-word verbs
		{
			name:  "open quests",
			input: "open quests",
			want:  types.Intent{Verb: "quests"},
		},
		{
			name:  "close staff",
			input: "close staff",
			want:  types.Intent{Verb: "staff"},
		},
		{
			name:  "talk to giver",
			input: "talk to giver",
			want:  types.Intent{Verb: "interact", Object: "giver"},
		},

		// Movement
		{
			name:  "walk forward for 1s",
			input: "walk forward for 1s",
			want:  types.Intent{Verb: "walk", Object: "forward", Target: "1s"},
		},
		{
			name:  "go b 500ms",
			input: "go b 500ms",
			want:  types.Intent{Verb: "walk", Object: "back", Target: "500ms"},
		},
		{
			name:  "run l 2s",
			input: "run l 2s",
			want:  types.Intent{Verb: "sprint", Object: "left", Target: "2s"},
		},
		{
			name:  "look yaw pitch",
			input: "look 0.5 -0.25",
			want:  types.Intent{Verb: "look", Object: "0.5", Target: "-0.25"},
		},

		// Arguments keep case
		{
			name:  "press W",
			input: "press W",
			want:  types.Intent{Verb: "press", Object: "W"},
		},
		{
			name:  "press a keeps filler-like key",
			input: "press a",
			want:  types.Intent{Verb: "press", Object: "a"},
		},
		{
			name:  "notes sequence",
			input: "notes C4 E4 G4",
			want:  types.Intent{Verb: "notes", Object: "C4 E4 G4"},
		},

		// Case insensitivity of verbs
		{
			name:  "WAIT 1s",
			input: "WAIT 1s",
			want:  types.Intent{Verb: "wait", Object: "1s"},
		},

		// Unknown verb passes through
		{
			name:  "unknown verb",
			input: "dance",
			want:  types.Intent{Verb: "dance"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
