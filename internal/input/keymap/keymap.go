package keymap

import (
	"fmt"

	"github.com/dshills/keychord/internal/input/key"
)

// Keymap holds key bindings as written in configuration.
type Keymap struct {
	// Name is the keymap identifier.
	Name string `json:"name" yaml:"name" toml:"name"`

	// Source indicates where this keymap was defined.
	// Examples: "default", "user", "script:init.lua"
	Source string `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`

	// Bindings are the key-to-command mappings, in registration order.
	Bindings []Entry `json:"bindings" yaml:"bindings" toml:"bindings"`
}

// NewKeymap creates a new keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:     name,
		Bindings: make([]Entry, 0),
	}
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add adds a binding to this keymap.
func (k *Keymap) Add(keys, command string) *Keymap {
	k.Bindings = append(k.Bindings, NewEntry(keys, command))
	return k
}

// AddEntry adds a fully configured entry to this keymap.
func (k *Keymap) AddEntry(entry Entry) *Keymap {
	k.Bindings = append(k.Bindings, entry)
	return k
}

// Validate checks that all entries in the keymap are valid.
func (k *Keymap) Validate() error {
	_, err := k.Compile()
	return err
}

// Compile parses every entry into a binding ready for Build.
func (k *Keymap) Compile() ([]Binding[string], error) {
	bindings := make([]Binding[string], 0, len(k.Bindings))
	for i, e := range k.Bindings {
		if e.Keys == "" {
			return nil, fmt.Errorf("binding %d: empty keys", i)
		}
		if e.Command == "" {
			return nil, fmt.Errorf("binding %d (%s): empty command", i, e.Keys)
		}
		seq, err := key.ParseSequence(e.Keys)
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s): %w", i, e.Keys, err)
		}
		bindings = append(bindings, NewBinding(seq, e.Command))
	}
	return bindings, nil
}

// Clone creates a deep copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	clone := &Keymap{
		Name:     k.Name,
		Source:   k.Source,
		Bindings: make([]Entry, len(k.Bindings)),
	}
	copy(clone.Bindings, k.Bindings)
	return clone
}

// Merge returns a keymap with base entries followed by overlay entries.
// Overlay entries win over base entries bound to the same keys because
// Build keeps the last registration.
func Merge(base, overlay *Keymap) *Keymap {
	if base == nil {
		if overlay == nil {
			return NewKeymap("")
		}
		return overlay.Clone()
	}
	merged := base.Clone()
	if overlay == nil {
		return merged
	}
	merged.Name = overlay.Name
	merged.Source = overlay.Source
	merged.Bindings = append(merged.Bindings, overlay.Bindings...)
	return merged
}
