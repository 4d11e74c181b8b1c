package key

import (
	"reflect"
	"unicode/utf8"
)

// Token is the canonical string form of one key press plus its modifiers.
// Tokens are compared for equality only.
type Token string

// String returns the token text.
func (t Token) String() string {
	return string(t)
}

// Canonicalize converts a raw key press into its canonical token.
// Returns false for pure modifier presses and empty identifiers,
// which never reach the interpreter.
func Canonicalize(e Event) (Token, bool) {
	if e.Key == "" || IsModifierKey(e.Key) {
		return "", false
	}

	name := alias(e.Key)

	s := e.Modifiers.prefix(utf8.RuneCountInString(name) > 1) + name
	if utf8.RuneCountInString(s) > 1 {
		return Token("<" + s + ">"), true
	}
	return Token(s), true
}

// FocusPolicy decides whether an event aimed at target is eligible.
type FocusPolicy func(target any) bool

// AnyTarget accepts every target.
func AnyTarget(any) bool { return true }

// TargetIs returns a policy that accepts only events aimed at root.
// Targets are compared with ==, so a target of a non-comparable type
// (slice, map, func) never matches; use a pointer for those.
func TargetIs(root any) FocusPolicy {
	return func(target any) bool {
		if target != nil && !reflect.TypeOf(target).Comparable() {
			return false
		}
		return target == root
	}
}

// Filter applies the modifier and focus rules and canonicalizes the event.
// A nil policy accepts every target.
func Filter(e Event, policy FocusPolicy) (Token, bool) {
	if e.IsModifierOnly() {
		return "", false
	}
	if policy != nil && !policy(e.Target) {
		return "", false
	}
	return Canonicalize(e)
}
