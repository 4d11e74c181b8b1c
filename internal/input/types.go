package input

// State is the interpreter's matching state.
type State uint8

const (
	// StateIdle means no tokens are pending and no timer runs.
	StateIdle State = iota
	// StatePending means a partial chord is waiting for more input.
	StatePending
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	default:
		return "unknown"
	}
}

// Resolution indicates how a chord resolved to a command.
type Resolution uint8

const (
	// ResolveImmediate indicates an unambiguous sequence fired on its last token.
	ResolveImmediate Resolution = iota
	// ResolveTimeout indicates an ambiguous sequence fired after the timeout.
	ResolveTimeout
)

// String returns a string representation of the resolution.
func (r Resolution) String() string {
	switch r {
	case ResolveImmediate:
		return "immediate"
	case ResolveTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}
