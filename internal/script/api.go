package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// registerModule installs the keychord global table.
func (h *Host) registerModule() {
	mod := h.L.NewTable()

	h.L.SetField(mod, "map", h.L.NewFunction(h.luaMap))
	h.L.SetField(mod, "command", h.L.NewFunction(h.luaCommand))
	h.L.SetField(mod, "bindings", h.L.NewFunction(h.luaBindings))
	h.L.SetField(mod, "log", h.L.NewFunction(h.luaLog))

	h.L.SetGlobal("keychord", mod)
}

// map(keys, command, opts?) -> nil
// opts is either a description string or a table with desc and category.
func (h *Host) luaMap(L *lua.LState) int {
	keys := L.CheckString(1)
	command := L.CheckString(2)

	if command == "" {
		L.ArgError(2, "command cannot be empty")
		return 0
	}
	if _, err := key.ParseSequence(keys); err != nil {
		L.ArgError(1, err.Error())
		return 0
	}

	entry := keymap.NewEntry(keys, command).WithCategory("Script")
	switch opts := L.Get(3).(type) {
	case lua.LString:
		entry = entry.WithDescription(string(opts))
	case *lua.LTable:
		if desc, ok := L.GetField(opts, "desc").(lua.LString); ok {
			entry = entry.WithDescription(string(desc))
		}
		if category, ok := L.GetField(opts, "category").(lua.LString); ok {
			entry = entry.WithCategory(string(category))
		}
	case *lua.LNilType:
	default:
		L.ArgError(3, "expected string or table")
		return 0
	}

	h.keymap.AddEntry(entry)
	return 0
}

// command(name, fn) -> nil
// Registering a name twice replaces the earlier function.
func (h *Host) luaCommand(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	if name == "" {
		L.ArgError(1, "name cannot be empty")
		return 0
	}

	if _, exists := h.commands[name]; exists {
		h.logger.Debug("script command replaced", "command", name)
	}
	h.commands[name] = fn
	return 0
}

// bindings() -> {{keys, command, desc, category}...}
func (h *Host) luaBindings(L *lua.LState) int {
	list := L.NewTable()
	for _, e := range h.keymap.Bindings {
		tbl := L.NewTable()
		L.SetField(tbl, "keys", lua.LString(e.Keys))
		L.SetField(tbl, "command", lua.LString(e.Command))
		L.SetField(tbl, "desc", lua.LString(e.Description))
		L.SetField(tbl, "category", lua.LString(e.Category))
		list.Append(tbl)
	}
	L.Push(list)
	return 1
}

// log(...) -> nil
func (h *Host) luaLog(L *lua.LState) int {
	h.logger.Info("script log", "text", joinArgs(L))
	return 0
}
