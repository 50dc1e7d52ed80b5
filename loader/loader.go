package loader

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/beatquest/types"
)

//go:embed default.lua
var defaultScenario string

// collector accumulates Lua definitions during file execution.
type collector struct {
	scenario *lua.LTable
	tempo    *lua.LTable
	player   *lua.LTable
	hammer   *lua.LTable
	givers   []rawNamed
	targets  []rawNamed
	commands []rawCommand
}

// Load reads all .lua files from dir, compiles them into a scenario and
// validates it. The Lua VM is discarded after loading.
func Load(dir string) (types.Scenario, error) {
	// Discover .lua files.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return types.Scenario{}, fmt.Errorf("reading scenario directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return types.Scenario{}, fmt.Errorf("no .lua files found in %s", dir)
	}

	// Sort: scenario.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	return run(func(L *lua.LState) error {
		for _, f := range luaFiles {
			if err := L.DoFile(filepath.Join(dir, f)); err != nil {
				return fmt.Errorf("executing %s: %w", f, err)
			}
		}
		return nil
	})
}

// LoadDefault compiles the built-in scenario.
func LoadDefault() (types.Scenario, error) {
	return LoadString(defaultScenario)
}

// LoadString compiles a scenario from Lua source.
func LoadString(src string) (types.Scenario, error) {
	return run(func(L *lua.LState) error {
		if err := L.DoString(src); err != nil {
			return fmt.Errorf("executing scenario: %w", err)
		}
		return nil
	})
}

func run(exec func(L *lua.LState) error) (types.Scenario, error) {
	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	// Open safe libs only.
	openSafeLibs(L)

	// Sandbox: remove dangerous globals.
	sandbox(L)

	// Register API.
	coll := &collector{}
	registerAPI(L, coll)

	if err := exec(L); err != nil {
		return types.Scenario{}, err
	}

	// Compile.
	sc, err := compile(coll)
	if err != nil {
		return types.Scenario{}, fmt.Errorf("compiling scenario: %w", err)
	}

	// Validate.
	if err := validate(&sc); err != nil {
		return types.Scenario{}, err
	}
	return sc, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	// Table library (table.insert, table.sort, etc.)
	lua.OpenTable(L)
	// String library (string.format, string.sub, etc.)
	lua.OpenString(L)
	// Math library (math.floor, math.max, etc.)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Remove math.randomseed; the scenario seed is the only seed.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}
