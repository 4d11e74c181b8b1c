package keymap

import (
	"github.com/dshills/keychord/internal/input/key"
)

// Binding maps a non-empty token sequence to one opaque command.
// The command's shape belongs to the caller.
type Binding[C any] struct {
	Keys    key.Sequence
	Command C
}

// NewBinding creates a binding from already-parsed keys.
func NewBinding[C any](keys key.Sequence, cmd C) Binding[C] {
	return Binding[C]{Keys: keys, Command: cmd}
}

// Entry is a single key binding as written in a keymap file.
type Entry struct {
	// Keys is the key sequence that triggers this binding.
	// Formats: "j", "g g", "<C-r>", "<S-Space>", "Ctrl+Shift+A"
	Keys string `json:"keys" yaml:"keys" toml:"keys"`

	// Command is the opaque command name handed to the host.
	// Examples: "entry.next", "stream.reload", "app.quit"
	Command string `json:"command" yaml:"command" toml:"command"`

	// Description provides documentation for the binding.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`

	// Category groups bindings for display purposes.
	Category string `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
}

// NewEntry creates a new entry with the given keys and command.
func NewEntry(keys, command string) Entry {
	return Entry{
		Keys:    keys,
		Command: command,
	}
}

// WithDescription sets the description for this entry.
func (e Entry) WithDescription(desc string) Entry {
	e.Description = desc
	return e
}

// WithCategory sets the category for this entry.
func (e Entry) WithCategory(category string) Entry {
	e.Category = category
	return e
}

// EntryCategory represents a category of entries for display.
type EntryCategory struct {
	Name    string
	Entries []Entry
}

// GroupByCategory groups entries by their category, keeping first-seen order.
func GroupByCategory(entries []Entry) []EntryCategory {
	categoryMap := make(map[string][]Entry)
	order := make([]string, 0)

	for _, e := range entries {
		cat := e.Category
		if cat == "" {
			cat = "Other"
		}
		if _, exists := categoryMap[cat]; !exists {
			order = append(order, cat)
		}
		categoryMap[cat] = append(categoryMap[cat], e)
	}

	result := make([]EntryCategory, 0, len(order))
	for _, name := range order {
		result = append(result, EntryCategory{
			Name:    name,
			Entries: categoryMap[name],
		})
	}
	return result
}
