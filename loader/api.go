package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Scenario { title = "...", seed = 42 }
	L.SetGlobal("Scenario", L.NewFunction(func(L *lua.LState) int {
		coll.scenario = L.CheckTable(1)
		return 0
	}))

	// Tempo { bpm = 120, lead = 0, multiplier = 1 }
	L.SetGlobal("Tempo", L.NewFunction(func(L *lua.LState) int {
		coll.tempo = L.CheckTable(1)
		return 0
	}))

	// Player { position = Vec(0, 1, 0), yaw = 0, ... }
	L.SetGlobal("Player", L.NewFunction(func(L *lua.LState) int {
		coll.player = L.CheckTable(1)
		return 0
	}))

	// Hammer { damage = 1, reach = 1.5, radius = 0.3 }
	L.SetGlobal("Hammer", L.NewFunction(func(L *lua.LState) int {
		coll.hammer = L.CheckTable(1)
		return 0
	}))

	// Giver "id" { ... } is curried: Giver("id") returns a function taking the table.
	L.SetGlobal("Giver", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.givers = append(coll.givers, rawNamed{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Target "id" { ... } is curried.
	L.SetGlobal("Target", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.targets = append(coll.targets, rawNamed{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Command "name" { "C4", "E4", "G4" } is curried; the table is the pattern.
	L.SetGlobal("Command", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.commands = append(coll.commands, rawCommand{name: name, table: tbl})
			return 0
		}))
		return 1
	}))
}

func registerHelpers(L *lua.LState) {
	// Vec(x, y, z) → { x = x, y = y, z = z }
	L.SetGlobal("Vec", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("x", lua.LNumber(L.OptNumber(1, 0)))
		tbl.RawSetString("y", lua.LNumber(L.OptNumber(2, 0)))
		tbl.RawSetString("z", lua.LNumber(L.OptNumber(3, 0)))
		L.Push(tbl)
		return 1
	}))

	// Notes("C4 E4 G4") → { "C4", "E4", "G4" }
	L.SetGlobal("Notes", L.NewFunction(func(L *lua.LState) int {
		s := L.CheckString(1)
		tbl := L.NewTable()
		for _, n := range splitFields(s) {
			tbl.Append(lua.LString(n))
		}
		L.Push(tbl)
		return 1
	}))
}
