// Package parser converts script lines into Intent structs.
// Intentionally dumb: no grammar, just aliases and word positions.
package parser

import (
	"strings"

	"github.com/nathoo/beatquest/types"
)

var directionExpansions = map[string]string{
	"f":         "forward",
	"fwd":       "forward",
	"ahead":     "forward",
	"b":         "back",
	"backward":  "back",
	"backwards": "back",
	"l":         "left",
	"r":         "right",
}

var verbAliases = map[string]string{
	// Interact
	"e":    "interact",
	"use":  "interact",
	"talk": "interact",

	// Proposal
	"y":   "accept",
	"yes": "accept",
	"n":   "decline",
	"no":  "decline",

	// Quest screen
	"j":       "quests",
	"journal": "quests",
	"log":     "quests",
	"pick":    "select",
	"choose":  "select",

	// Combat
	"swing":  "attack",
	"hit":    "attack",
	"smash":  "attack",
	"strike": "attack",

	// Movement
	"go":   "walk",
	"move": "walk",
	"run":  "sprint",
	"turn": "look",

	// Staff
	"`":    "staff",
	"play": "note",

	// Miscellaneous
	"z":     "wait",
	"sleep": "wait",
	"tap":   "press",
	"key":   "press",
	"stat":  "status",
}

var fillers = map[string]bool{
	"for": true, "the": true, "a": true, "an": true, "to": true,
}

// Parse converts a raw script line into an Intent. The verb is lowercased;
// arguments keep their case since keys are case-sensitive.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(input)
	words = expandMultiWordVerbs(words)

	verb := strings.ToLower(words[0])
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	rest := words[1:]
	if verb != "press" {
		rest = stripFillers(rest)
	}

	switch verb {
	case "walk", "sprint":
		if len(rest) > 0 {
			d := strings.ToLower(rest[0])
			if full, ok := directionExpansions[d]; ok {
				d = full
			}
			rest[0] = d
		}
	case "notes":
		return types.Intent{Verb: verb, Object: strings.Join(rest, " ")}
	}

	var object, target string
	if len(rest) > 0 {
		object = rest[0]
		target = strings.Join(rest[1:], " ")
	}
	return types.Intent{Verb: verb, Object: object, Target: target}
}

// expandMultiWordVerbs handles "open quests", "close staff" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}
	first, second := strings.ToLower(words[0]), strings.ToLower(words[1])
	switch first {
	case "open", "close", "toggle":
		switch second {
		case "quests", "journal", "log":
			return append([]string{"quests"}, words[2:]...)
		case "staff":
			return append([]string{"staff"}, words[2:]...)
		}
	case "look":
		if second == "at" {
			return append([]string{"look"}, words[2:]...)
		}
	case "talk":
		if second == "to" || second == "with" {
			return append([]string{"interact"}, words[2:]...)
		}
	}
	return words
}

// stripFillers removes filler words ("for", "the", ...) from the word list.
func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillers[strings.ToLower(w)] {
			result = append(result, w)
		}
	}
	return result
}
