package key

import "time"

// Event represents a single raw key press as delivered by a key source.
type Event struct {
	// Key is the key identifier ("a", "A", " ", "Enter", "ArrowUp", "Shift").
	Key string

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Target identifies the element that had focus when the key was pressed.
	// Focus policies compare it with ==; see TargetIs.
	Target any

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// IsModifierOnly returns true if the event is a bare modifier press.
func (e Event) IsModifierOnly() bool {
	return IsModifierKey(e.Key)
}

// WithModifier returns a copy with the specified modifier added.
func (e Event) WithModifier(mod Modifier) Event {
	e.Modifiers = e.Modifiers.With(mod)
	return e
}
