// Package key turns raw key presses into canonical tokens.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Modifier: Represents modifier keys (Shift, Ctrl, Alt, Meta)
//   - Event: A single raw key press with modifiers, focus target and timestamp
//   - Token: The canonical string form of one key press
//   - FocusPolicy: Host-supplied predicate deciding which targets are eligible
//
// # Canonical Tokens
//
// A token is built from the (possibly aliased) key name with modifier
// prefixes in the fixed order S-, C-, A-, M-. A single printable character
// is left bare; anything longer is wrapped in angle brackets:
//
//	"a"            -> a
//	Shift+"A"      -> A          (case already encodes shift)
//	" "            -> <Space>
//	Shift+" "      -> <S-Space>
//	Ctrl+"x"       -> <C-x>
//	"Enter"        -> <Enter>
//	"<"            -> <Lt>
//
// Pure modifier presses ("Shift", "Control", "Alt", "Meta") produce no token.
//
// # Written Keys
//
// Keymap files write keys in Vim notation ("g g", "<C-x><C-s>") or readable
// notation ("Ctrl+S"). ParseToken and ParseSequence normalize written keys
// to the exact tokens Canonicalize produces for the matching live press.
package key
