package key

import "strings"

// Modifier is a set of held modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	// ModMeta is Cmd on macOS and the Windows key elsewhere.
	ModMeta
)

// tokenOrder lists modifiers in the order their prefixes appear in a token.
var tokenOrder = []struct {
	mod    Modifier
	prefix string
}{
	{ModShift, "S-"},
	{ModCtrl, "C-"},
	{ModAlt, "A-"},
	{ModMeta, "M-"},
}

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// prefix renders the token prefix, e.g. "S-C-". Shift is left out for
// single-character names, whose case already encodes it.
func (m Modifier) prefix(multiRune bool) string {
	var sb strings.Builder
	for _, o := range tokenOrder {
		if !m.Has(o.mod) || (o.mod == ModShift && !multiRune) {
			continue
		}
		sb.WriteString(o.prefix)
	}
	return sb.String()
}

// modifierNameMap maps written modifier names (lowercase) to modifiers.
// The one-letter forms are the Vim spellings used inside "<...>".
var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"a":       ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
	"meta":    ModMeta,
	"m":       ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"win":     ModMeta,
	"super":   ModMeta,
	"d":       ModMeta,
}

// ModifierFromName returns the modifier for a written name, ignoring case.
// Unknown names give ModNone.
func ModifierFromName(name string) Modifier {
	return modifierNameMap[strings.ToLower(strings.TrimSpace(name))]
}

// modifierKeys are key identifiers that are themselves modifiers.
var modifierKeys = map[string]bool{
	KeyShift:   true,
	KeyControl: true,
	KeyAlt:     true,
	KeyMeta:    true,
}

// IsModifierKey reports whether the key identifier is a pure modifier press.
func IsModifierKey(name string) bool {
	return modifierKeys[name]
}
