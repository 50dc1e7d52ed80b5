package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/beatquest/engine/input"
	"github.com/nathoo/beatquest/types"
)

// Keymap rebinds actions per input context:
//
//	player:
//	  interact: [e, enter]
//	proposal:
//	  decline: [space, n]
//
// Actions not listed keep their default keys.
type Keymap map[string]map[string][]string

// LoadKeymap reads a keymap file. An empty path returns an empty keymap.
func LoadKeymap(path string) (Keymap, error) {
	if path == "" {
		return Keymap{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keymap %s: %w", path, err)
	}
	km, err := ParseKeymap(data)
	if err != nil {
		return nil, fmt.Errorf("keymap %s: %w", path, err)
	}
	return km, nil
}

// ParseKeymap decodes keymap YAML.
func ParseKeymap(data []byte) (Keymap, error) {
	km := Keymap{}
	if err := yaml.Unmarshal(data, &km); err != nil {
		return nil, fmt.Errorf("parse keymap: %w", err)
	}
	for ctx, actions := range km {
		for action, keys := range actions {
			if len(keys) == 0 {
				return nil, fmt.Errorf("%s.%s: no keys", ctx, action)
			}
		}
	}
	return km, nil
}

// Apply rebinds the matching contexts. Every context and action named in
// the keymap must already exist; nothing is changed if one does not.
func (k Keymap) Apply(ctxs []*input.Context) error {
	byName := map[string]*input.Context{}
	for _, c := range ctxs {
		byName[c.Name] = c
	}

	type rebind struct {
		ctx    *input.Context
		action types.Action
		keys   []input.Key
	}
	var pending []rebind
	for _, name := range k.contexts() {
		ctx, ok := byName[name]
		if !ok {
			return fmt.Errorf("keymap: unknown context %q", name)
		}
		for action, keys := range k[name] {
			a := types.Action(action)
			if len(ctx.Keys(a)) == 0 {
				return fmt.Errorf("keymap: context %q has no action %q", name, action)
			}
			r := rebind{ctx: ctx, action: a}
			for _, key := range keys {
				r.keys = append(r.keys, input.Key(key))
			}
			pending = append(pending, r)
		}
	}
	for _, r := range pending {
		r.ctx.Rebind(r.action, r.keys...)
	}
	return nil
}

func (k Keymap) contexts() []string {
	names := make([]string, 0, len(k))
	for name := range k {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
