package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keychord/internal/input/key"
)

// namedKeys maps tcell special keys to host key identifiers.
var namedKeys = map[tcell.Key]string{
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBacktab:    key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyArrowUp,
	tcell.KeyDown:       key.KeyArrowDown,
	tcell.KeyLeft:       key.KeyArrowLeft,
	tcell.KeyRight:      key.KeyArrowRight,
	tcell.KeyPause:      key.KeyPause,
}

// ConvertKey translates a tcell key event into a host key event.
// Returns false for keys with no host identifier.
//
// Control-letter keys arrive from the terminal as control codes; they are
// reported as the lowercase letter with ModCtrl so that "<C-d>" matches.
func ConvertKey(ev *tcell.EventKey) (key.Event, bool) {
	e := key.Event{Modifiers: convertMod(ev.Modifiers()), Timestamp: ev.When()}
	k := ev.Key()

	if k == tcell.KeyRune {
		r := ev.Rune()
		// Terminals cannot report Ctrl+Shift+letter
		if e.Modifiers.Has(key.ModCtrl) && !e.Modifiers.Has(key.ModShift) && r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		e.Key = string(r)
		return e, true
	}

	if name, ok := namedKeys[k]; ok {
		e.Key = name
		if k == tcell.KeyBacktab {
			e = e.WithModifier(key.ModShift)
		}
		return e, true
	}

	switch {
	case k == tcell.KeyCtrlSpace:
		e.Key = " "
		return e.WithModifier(key.ModCtrl), true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		e.Key = string(rune('a' + int(k-tcell.KeyCtrlA)))
		return e.WithModifier(key.ModCtrl), true
	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		e.Key = fmt.Sprintf("F%d", int(k-tcell.KeyF1)+1)
		return e, true
	}

	return key.Event{}, false
}

// convertMod converts a tcell modifier mask to key modifiers.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}
