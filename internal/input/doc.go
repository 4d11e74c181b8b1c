// Package input turns raw key presses into commands.
//
// The input package canonicalizes each key press into a token (see package
// key), matches growing token sequences against a binding trie (see package
// keymap) and resolves the timing ambiguity between a short binding and a
// longer binding that shares its prefix.
//
// # Architecture
//
//   - Token Canonicalizer: key.Filter drops modifier-only presses and events
//     outside the focus scope, then key.Canonicalize encodes the rest.
//   - Binding Trie: keymap.Build inserts every binding and rejects dead ends.
//   - Interpreter: a two-state machine (Idle, Pending) owning the pending
//     sequence and at most one timer.
//   - Queue and Router: optional plumbing that moves command execution off
//     the interpreter lock and maps command names to handlers.
//
// # Resolution
//
// For each token the candidate is the pending sequence plus the token:
//
//   - No match: the whole candidate is discarded. There is no fallback to
//     a shorter bound prefix.
//   - Bound, no children: the command fires immediately.
//   - Bound, with children: a timer starts; if it elapses the command fires.
//     Any later token cancels it.
//   - Not bound: the interpreter waits for more input with no timer.
//
// # Usage
//
//	trie, err := keymap.Build(bindings)
//	if err != nil {
//	    return err
//	}
//
//	queue := input.NewQueue[string](64)
//	interp, err := input.NewInterpreter(trie, queue.Emit,
//	    input.WithTimeout(500*time.Millisecond),
//	    input.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := interp.Activate(source.Subscribe); err != nil {
//	    return err
//	}
//	defer interp.Dispose()
//
//	queue.Run(ctx, router.Execute)
package input
