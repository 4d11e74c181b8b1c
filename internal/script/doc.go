// Package script hosts user Lua scripts that extend the key bindings.
//
// A script runs in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. It sees a single global module:
//
//	keychord.map("g d", "stream.diff", "Diff against previous")
//	keychord.map("<C-k>", "entry.prev", { desc = "Up", category = "Navigation" })
//	keychord.unmap("q")
//	keychord.command("stream.diff", function()
//	    keychord.log("diffing")
//	end)
//
// Bindings collected by map/unmap are returned by Host.Keymap and are meant
// to be layered over the default keymap before the trie is built. Commands
// registered with keychord.command are run by Host.Invoke when the
// interpreter emits their name.
//
// # Thread Safety
//
// gopher-lua's LState is not goroutine-safe. Host serializes every call
// into the state with a mutex, so LoadFile and Invoke may be called from
// different goroutines.
package script
