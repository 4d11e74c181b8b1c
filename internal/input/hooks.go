package input

import "github.com/dshills/keychord/internal/input/key"

// Hooks observe interpreter state changes, e.g. to draw pending keys.
// Callbacks run while the interpreter lock is held and must not call
// back into the interpreter. Nil callbacks are skipped.
type Hooks struct {
	// OnPending is called whenever the pending sequence changes,
	// including resets to empty.
	OnPending func(pending key.Sequence)

	// OnResolve is called just before a command is emitted.
	OnResolve func(keys key.Sequence, how Resolution)

	// OnMismatch is called when a candidate sequence matches nothing.
	OnMismatch func(keys key.Sequence)
}

func (h Hooks) pending(seq key.Sequence) {
	if h.OnPending != nil {
		h.OnPending(seq.Clone())
	}
}

func (h Hooks) resolve(seq key.Sequence, how Resolution) {
	if h.OnResolve != nil {
		h.OnResolve(seq.Clone(), how)
	}
}

func (h Hooks) mismatch(seq key.Sequence) {
	if h.OnMismatch != nil {
		h.OnMismatch(seq.Clone())
	}
}

// Chain combines hooks so each callback runs in order.
func Chain(hooks ...Hooks) Hooks {
	return Hooks{
		OnPending: func(pending key.Sequence) {
			for _, h := range hooks {
				h.pending(pending)
			}
		},
		OnResolve: func(keys key.Sequence, how Resolution) {
			for _, h := range hooks {
				h.resolve(keys, how)
			}
		},
		OnMismatch: func(keys key.Sequence) {
			for _, h := range hooks {
				h.mismatch(keys)
			}
		},
	}
}
