// Package loader loads Lua scenario content into Go structs at startup.
// The Lua VM is discarded after loading; no Lua runs after that.
package loader

import (
	"fmt"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/beatquest/types"
)

// rawNamed holds a giver or target table before compilation.
type rawNamed struct {
	id    string
	table *lua.LTable
}

// rawCommand holds a note pattern before compilation.
type rawCommand struct {
	name  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getVec reads a position written either as { x = 1, y = 2, z = 3 } or as
// the array { 1, 2, 3 }.
func getVec(tbl *lua.LTable, key string) types.Vec3 {
	t := getTable(tbl, key)
	if t == nil {
		return types.Vec3{}
	}
	if t.MaxN() > 0 {
		num := func(i int) float64 {
			if n, ok := t.RawGetInt(i).(lua.LNumber); ok {
				return float64(n)
			}
			return 0
		}
		return types.Vec3{X: num(1), Y: num(2), Z: num(3)}
	}
	return types.Vec3{X: getNumber(t, "x"), Y: getNumber(t, "y"), Z: getNumber(t, "z")}
}

// compile converts the collected Lua tables into a Scenario.
func compile(coll *collector) (types.Scenario, error) {
	var sc types.Scenario
	if coll.scenario == nil {
		return sc, fmt.Errorf("no Scenario {} block found")
	}
	sc.Title = getString(coll.scenario, "title")
	sc.Seed = int64(getNumber(coll.scenario, "seed"))

	if coll.tempo != nil {
		sc.Tempo = compileTempo(coll.tempo)
	}
	if coll.player != nil {
		sc.Player = compilePlayer(coll.player)
	}
	if coll.hammer != nil {
		sc.Hammer = compileHammer(coll.hammer)
	}
	for _, g := range coll.givers {
		sc.Givers = append(sc.Givers, compileGiver(g))
	}
	for _, t := range coll.targets {
		sc.Targets = append(sc.Targets, compileTarget(t))
	}
	for _, c := range coll.commands {
		cmd, err := compileCommand(c)
		if err != nil {
			return sc, err
		}
		sc.Commands = append(sc.Commands, cmd)
	}
	return sc, nil
}

func compileTempo(tbl *lua.LTable) types.TempoDef {
	return types.TempoDef{
		BPM:        getNumber(tbl, "bpm"),
		Lead:       getNumber(tbl, "lead"),
		Multiplier: getNumber(tbl, "multiplier"),
	}
}

func compilePlayer(tbl *lua.LTable) types.PlayerDef {
	return types.PlayerDef{
		Position:    getVec(tbl, "position"),
		Yaw:         getNumber(tbl, "yaw"),
		Pitch:       getNumber(tbl, "pitch"),
		Speed:       getNumber(tbl, "speed"),
		Sprint:      getNumber(tbl, "sprint"),
		Sensitivity: getNumber(tbl, "sensitivity"),
	}
}

func compileHammer(tbl *lua.LTable) types.HammerDef {
	return types.HammerDef{
		Damage: getNumber(tbl, "damage"),
		Reach:  getNumber(tbl, "reach"),
		Radius: getNumber(tbl, "radius"),
	}
}

func compileGiver(raw rawNamed) types.GiverDef {
	return types.GiverDef{
		ID:       raw.id,
		Position: getVec(raw.table, "position"),
		Radius:   getNumber(raw.table, "radius"),
	}
}

func compileTarget(raw rawNamed) types.TargetDef {
	name := getString(raw.table, "name")
	if name == "" {
		name = raw.id
	}
	return types.TargetDef{
		ID:       raw.id,
		Name:     name,
		Position: getVec(raw.table, "position"),
		Radius:   getNumber(raw.table, "radius"),
		Health:   getNumber(raw.table, "health"),
	}
}

func compileCommand(raw rawCommand) (types.CommandDef, error) {
	cmd := types.CommandDef{Name: raw.name}
	n := raw.table.MaxN()
	for i := 1; i <= n; i++ {
		s, ok := raw.table.RawGetInt(i).(lua.LString)
		if !ok {
			return cmd, fmt.Errorf("command %q: note %d is not a string", raw.name, i)
		}
		cmd.Notes = append(cmd.Notes, strings.ToUpper(string(s)))
	}
	return cmd, nil
}

func splitFields(s string) []string {
	return strings.Fields(s)
}

// sortedLuaFiles returns files with scenario.lua first, rest alphabetical.
func sortedLuaFiles(files []string) []string {
	var first string
	var others []string
	for _, f := range files {
		if f == "scenario.lua" {
			first = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if first != "" {
		return append([]string{first}, others...)
	}
	return others
}
