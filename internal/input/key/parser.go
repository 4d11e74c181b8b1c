package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// ParseToken parses a written key into the token Canonicalize would
// produce for the same live press.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Named keys: "Enter", "Esc", "Space", "F5"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Space>", "<Lt>"
func ParseToken(spec string) (Token, error) {
	e, err := ParseEvent(spec)
	if err != nil {
		return "", err
	}
	tok, ok := Canonicalize(e)
	if !ok {
		return "", fmt.Errorf("%w: %q is a modifier", ErrInvalidSpec, spec)
	}
	return tok, nil
}

// ParseEvent parses a written key into the raw event it stands for.
func ParseEvent(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	// Vim-style <...> notation
	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	// Modifier+key notation (Ctrl+S, Alt+F4)
	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseKeyWithModifiers(spec, ModNone, false)
}

// parseVimStyle parses the inside of Vim-style notation like "C-s", "S-Space", "C--".
func parseVimStyle(inner string) (Event, error) {
	var mods Modifier
	for len(inner) > 2 && inner[1] == '-' {
		switch unicode.ToLower(rune(inner[0])) {
		case 's':
			mods = mods.With(ModShift)
		case 'c':
			mods = mods.With(ModCtrl)
		case 'a':
			mods = mods.With(ModAlt)
		case 'm', 'd': // D is Vim's notation for Command/Meta
			mods = mods.With(ModMeta)
		default:
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, inner[:1])
		}
		inner = inner[2:]
	}
	return parseKeyWithModifiers(inner, mods, true)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Event, error) {
	keyPart := spec[strings.LastIndex(spec, "+")+1:]
	modPart := spec[:strings.LastIndex(spec, "+")]
	if keyPart == "" {
		// "Ctrl++" binds the plus key itself
		keyPart = "+"
		modPart = strings.TrimSuffix(modPart, "+")
	}

	var mods Modifier
	for _, p := range strings.Split(modPart, "+") {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, strings.TrimSpace(p))
		}
		mods = mods.With(mod)
	}

	keyPart = strings.TrimSpace(keyPart)
	// "Ctrl+S" means the s key; Shift must be spelled out.
	if !mods.Has(ModShift) && utf8.RuneCountInString(keyPart) == 1 {
		keyPart = strings.ToLower(keyPart)
	}

	return parseKeyWithModifiers(keyPart, mods, false)
}

// parseKeyWithModifiers resolves a key name with already-known modifiers.
// Unknown multi-character names are accepted only inside angle brackets,
// where they pass through as host identifiers (e.g. "<MediaPlay>").
func parseKeyWithModifiers(keyPart string, mods Modifier, bracketed bool) (Event, error) {
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}

	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		// A shifted letter arrives from key sources as its capital.
		if mods.Has(ModShift) && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
		}
		if unicode.IsUpper(r) {
			mods = mods.With(ModShift)
		}
		return Event{Key: string(r), Modifiers: mods}, nil
	}

	if id, ok := KeyFromName(keyPart); ok {
		return Event{Key: id, Modifiers: mods}, nil
	}

	if IsModifierKey(keyPart) {
		return Event{}, fmt.Errorf("%w: %q is a modifier", ErrInvalidSpec, keyPart)
	}

	if bracketed && isIdentifier(keyPart) {
		return Event{Key: keyPart, Modifiers: mods}, nil
	}

	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

func isIdentifier(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// MustParseToken parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParseToken(spec string) Token {
	tok, err := ParseToken(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return tok
}
