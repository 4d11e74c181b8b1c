package key

import "strings"

// Named key identifiers as delivered by key sources.
// Printable characters are delivered as themselves ("a", "A", " ", "<").
const (
	KeyEnter      = "Enter"
	KeyEscape     = "Escape"
	KeyTab        = "Tab"
	KeyBackspace  = "Backspace"
	KeyDelete     = "Delete"
	KeyInsert     = "Insert"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyPageUp     = "PageUp"
	KeyPageDown   = "PageDown"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyPause      = "Pause"
	KeyCapsLock   = "CapsLock"
	KeyScrollLock = "ScrollLock"
	KeyNumLock    = "NumLock"

	KeyShift   = "Shift"
	KeyControl = "Control"
	KeyAlt     = "Alt"
	KeyMeta    = "Meta"
)

// aliases maps non-printable or whitespace identifiers to readable names.
var aliases = map[string]string{
	" ":  "Space",
	"|":  "Bar",
	"\\": "Bslash",
	"<":  "Lt",
}

// keyNameMap maps written key names (lowercase) to key identifiers.
// It covers Vim spellings as well as the alias names, so that
// "<Space>" parses back to the identifier " ".
var keyNameMap = map[string]string{
	"space":      " ",
	"bar":        "|",
	"bslash":     "\\",
	"lt":         "<",
	"gt":         ">",
	"enter":      KeyEnter,
	"return":     KeyEnter,
	"cr":         KeyEnter,
	"escape":     KeyEscape,
	"esc":        KeyEscape,
	"tab":        KeyTab,
	"backspace":  KeyBackspace,
	"bs":         KeyBackspace,
	"delete":     KeyDelete,
	"del":        KeyDelete,
	"insert":     KeyInsert,
	"ins":        KeyInsert,
	"home":       KeyHome,
	"end":        KeyEnd,
	"pageup":     KeyPageUp,
	"pgup":       KeyPageUp,
	"pagedown":   KeyPageDown,
	"pgdn":       KeyPageDown,
	"up":         KeyArrowUp,
	"arrowup":    KeyArrowUp,
	"down":       KeyArrowDown,
	"arrowdown":  KeyArrowDown,
	"left":       KeyArrowLeft,
	"arrowleft":  KeyArrowLeft,
	"right":      KeyArrowRight,
	"arrowright": KeyArrowRight,
	"pause":      KeyPause,
	"capslock":   KeyCapsLock,
	"scrolllock": KeyScrollLock,
	"numlock":    KeyNumLock,
	"f1":         "F1",
	"f2":         "F2",
	"f3":         "F3",
	"f4":         "F4",
	"f5":         "F5",
	"f6":         "F6",
	"f7":         "F7",
	"f8":         "F8",
	"f9":         "F9",
	"f10":        "F10",
	"f11":        "F11",
	"f12":        "F12",
}

// KeyFromName returns the key identifier for a written name (case-insensitive).
// Returns false if the name is not recognized.
func KeyFromName(name string) (string, bool) {
	id, ok := keyNameMap[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// alias returns the readable name for a key identifier.
func alias(id string) string {
	if name, ok := aliases[id]; ok {
		return name
	}
	return id
}
