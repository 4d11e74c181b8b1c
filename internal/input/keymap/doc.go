// Package keymap provides the binding trie and keymap files.
//
// # Key Concepts
//
// Trie: A prefix tree whose edges are canonical tokens and whose nodes
// optionally carry a bound command. Built once from the full binding set
// and read-only afterwards.
//
// Binding: Maps a parsed token sequence to one opaque command value.
//
// Keymap: A named list of written entries ("g g" -> "scroll.top") loaded
// from JSON, YAML or TOML and compiled into bindings.
//
// # Construction Rules
//
//   - An empty sequence is rejected.
//   - A sequence bound twice keeps the later command; Build logs a warning.
//   - A node with neither a command nor children is a construction error
//     reported by Validate, never a runtime state.
//
// # Usage
//
//	bindings, err := keymap.Default().Compile()
//	if err != nil {
//	    return err
//	}
//	trie, err := keymap.Build(bindings, keymap.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//
//	node, ok := trie.Find(key.Sequence{"g"})
//	if ok && node.HasChildren() {
//	    // "g" is a prefix of a longer binding
//	}
package keymap
