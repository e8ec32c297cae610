package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// LoadLuaDir executes all .lua files in dir in a sandboxed VM and
// compiles the declared definitions into an in-memory document set
// served through the ordinary Fetcher path. The VM is discarded after
// loading; Lua is an authoring front-end, not a runtime.
func LoadLuaDir(dir string) (Fetcher, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading adventure directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	docs := MemFetcher{}
	registerConstructors(L, docs)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}
	return docs, nil
}

// sortedLuaFiles puts game.lua first so manifests exist before the
// content files that assume them; the rest run alphabetically.
func sortedLuaFiles(files []string) []string {
	sort.Strings(files)
	for i, f := range files {
		if f == "game.lua" && i > 0 {
			copy(files[1:i+1], files[:i])
			files[0] = f
			break
		}
	}
	return files
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
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
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}

// registerConstructors registers the authoring globals. Each
// constructor converts its table to the canonical JSON document and
// files it under the convention path, so the interpreter never sees
// the difference between Lua-authored and fetched adventures.
func registerConstructors(L *lua.LState, docs MemFetcher) {
	// Game { title = "...", intro = "...", outro = "..." }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		docs.put("game", L.CheckTable(1))
		return 0
	}))

	// World { startRoom = "...", globalFlags = { ... } }
	L.SetGlobal("World", L.NewFunction(func(L *lua.LState) int {
		docs.put("world", L.CheckTable(1))
		return 0
	}))

	// Room "id" { ... } is curried: Room("id") returns a function that takes a table.
	curried := func(dir string) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				docs.put(dir+"/"+id, L.CheckTable(1))
				return 0
			}))
			return 1
		})
	}
	L.SetGlobal("Room", curried("rooms"))
	L.SetGlobal("Item", curried("items"))
	L.SetGlobal("Fixture", curried("objects"))
	L.SetGlobal("Actor", curried("actors"))
	L.SetGlobal("Dialog", curried("dialogs"))

	// Art("name", [[...]])
	L.SetGlobal("Art", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		docs["art/"+name+".txt"] = []byte(L.CheckString(2))
		return 0
	}))
}

func (m MemFetcher) put(base string, tbl *lua.LTable) {
	data, err := json.Marshal(toGoValue(tbl))
	if err != nil {
		// toGoValue produces only JSON-encodable values.
		panic(err)
	}
	m[base+".json"] = data
}

// emptyTable reports whether a table has no entries of any kind.
func emptyTable(t *lua.LTable) bool {
	k, _ := t.Next(lua.LNil)
	return k == lua.LNil
}

// toGoValue converts a Lua value into plain Go data. Tables with
// sequential integer keys become arrays, everything else a string map.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			ks, ok := k.(lua.LString)
			if !ok {
				return
			}
			// An empty table is ambiguous between list and map; omit
			// the field and let the Go zero value stand in, same as an
			// absent JSON field.
			if sub, isTbl := v.(*lua.LTable); isTbl && emptyTable(sub) {
				return
			}
			m[string(ks)] = toGoValue(v)
		})
		return m
	default:
		return nil
	}
}
