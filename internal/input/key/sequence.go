package key

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sequence is an ordered series of tokens forming a binding or a pending chord.
// Examples: "g g" (go to top), "<C-x> <C-s>" (save)
type Sequence []Token

// String returns the space-separated display form.
func (s Sequence) String() string {
	if len(s) == 0 {
		return ""
	}

	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = string(t)
	}
	return strings.Join(parts, " ")
}

// Equals returns true if two sequences are identical.
func (s Sequence) Equals(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i, t := range s {
		if t != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true if this sequence starts with the given prefix.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	if len(prefix) > len(s) {
		return false
	}
	return s[:len(prefix)].Equals(prefix)
}

// Append returns a new sequence with t appended. The receiver is not modified.
func (s Sequence) Append(t Token) Sequence {
	out := make(Sequence, len(s), len(s)+1)
	copy(out, s)
	return append(out, t)
}

// Clone returns a copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// ParseSequence parses a written key sequence into tokens.
// The string can contain space-separated keys or a continuous Vim-style sequence.
// Outside angle brackets a named key must be capitalised ("Enter", "Space"),
// so lowercase runs such as "gt" or "up" are one token per character.
// Examples: "g g", "gg", "<C-x><C-s>", "Ctrl+X s", "<Space> f"
func ParseSequence(s string) (Sequence, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptySpec
	}

	seq := make(Sequence, 0, 4)
	for _, field := range strings.FieldsFunc(s, unicode.IsSpace) {
		// Named keys and Ctrl+X forms stand alone in a field.
		if isBareName(field) || (len(field) > 1 && strings.Contains(field, "+")) {
			tok, err := ParseToken(field)
			if err != nil {
				return nil, err
			}
			seq = append(seq, tok)
			continue
		}

		toks, err := parseContinuous(field)
		if err != nil {
			return nil, err
		}
		seq = append(seq, toks...)
	}

	return seq, nil
}

// isBareName reports whether an unbracketed field is a capitalised key name.
func isBareName(field string) bool {
	r, size := utf8.DecodeRuneInString(field)
	if size == len(field) || !unicode.IsUpper(r) {
		return false
	}
	_, named := KeyFromName(field)
	return named
}

// parseContinuous parses a run like "gg" or "<C-x><C-s>" with no spaces.
func parseContinuous(s string) (Sequence, error) {
	var seq Sequence
	i := 0
	for i < len(s) {
		if s[i] == '<' {
			end := strings.IndexByte(s[i+1:], '>')
			if end > 0 {
				tok, err := ParseToken(s[i : i+end+2])
				if err != nil {
					return nil, err
				}
				seq = append(seq, tok)
				i += end + 2
				continue
			}
			// No closing >, treat as literal <
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		tok, err := ParseToken(string(r))
		if err != nil {
			return nil, err
		}
		seq = append(seq, tok)
		i += size
	}
	return seq, nil
}

// MustParseSequence parses a sequence string and panics on error.
// Use only for known-valid sequences in initialization code.
func MustParseSequence(s string) Sequence {
	seq, err := ParseSequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return seq
}
