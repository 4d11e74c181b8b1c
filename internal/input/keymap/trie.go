package keymap

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dshills/keychord/internal/input/key"
)

// Trie construction errors.
var (
	ErrEmptySequence = errors.New("binding has an empty key sequence")
	ErrDeadEnd       = errors.New("trie node has neither a command nor children")
)

// Node is one position in the binding trie.
// Every non-root node is reachable by exactly one token path.
type Node[C any] struct {
	children map[key.Token]*Node[C]
	command  C
	bound    bool
}

func newNode[C any]() *Node[C] {
	return &Node[C]{children: make(map[key.Token]*Node[C])}
}

// HasChildren reports whether the node has at least one outgoing edge.
func (n *Node[C]) HasChildren() bool {
	return len(n.children) > 0
}

// Command returns the bound command, if any.
func (n *Node[C]) Command() (C, bool) {
	return n.command, n.bound
}

// Child returns the node reached by t.
func (n *Node[C]) Child(t key.Token) (*Node[C], bool) {
	child, ok := n.children[t]
	return child, ok
}

// Trie is a prefix tree whose edges are tokens and whose nodes optionally
// carry a bound command. It is built once and read-only afterwards.
type Trie[C any] struct {
	root *Node[C]
	size int
}

// New creates an empty trie.
func New[C any]() *Trie[C] {
	return &Trie[C]{root: newNode[C]()}
}

// Insert binds cmd to seq, creating nodes along the way.
// Re-inserting an existing sequence replaces its command and reports replaced.
func (t *Trie[C]) Insert(seq key.Sequence, cmd C) (replaced bool, err error) {
	if len(seq) == 0 {
		return false, ErrEmptySequence
	}

	node := t.root
	for _, tok := range seq {
		child, ok := node.children[tok]
		if !ok {
			child = newNode[C]()
			node.children[tok] = child
		}
		node = child
	}

	replaced = node.bound
	node.command = cmd
	node.bound = true
	if !replaced {
		t.size++
	}
	return replaced, nil
}

// Find walks from the root consuming seq token by token.
// Returns false if any step has no matching child.
func (t *Trie[C]) Find(seq key.Sequence) (*Node[C], bool) {
	node := t.root
	for _, tok := range seq {
		child, ok := node.children[tok]
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// Len returns the number of bound sequences.
func (t *Trie[C]) Len() int {
	return t.size
}

// Validate checks that every non-root node has a command or children.
func (t *Trie[C]) Validate() error {
	var walk func(n *Node[C], path key.Sequence) error
	walk = func(n *Node[C], path key.Sequence) error {
		if len(path) > 0 && !n.bound && !n.HasChildren() {
			return fmt.Errorf("%w: %q", ErrDeadEnd, path.String())
		}
		for _, tok := range sortedTokens(n) {
			if err := walk(n.children[tok], path.Append(tok)); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(t.root, nil)
}

// Walk visits every bound sequence in token order.
func (t *Trie[C]) Walk(fn func(seq key.Sequence, cmd C)) {
	var walk func(n *Node[C], path key.Sequence)
	walk = func(n *Node[C], path key.Sequence) {
		if n.bound {
			fn(path, n.command)
		}
		for _, tok := range sortedTokens(n) {
			walk(n.children[tok], path.Append(tok))
		}
	}
	walk(t.root, nil)
}

func sortedTokens[C any](n *Node[C]) []key.Token {
	toks := make([]key.Token, 0, len(n.children))
	for tok := range n.children {
		toks = append(toks, tok)
	}
	sort.Slice(toks, func(i, j int) bool { return toks[i] < toks[j] })
	return toks
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for duplicate-binding warnings.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(o *buildOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Build inserts every binding in order and validates the result.
// A sequence bound twice keeps the later command and logs a warning.
func Build[C any](bindings []Binding[C], opts ...BuildOption) (*Trie[C], error) {
	o := buildOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	t := New[C]()
	for i, b := range bindings {
		replaced, err := t.Insert(b.Keys, b.Command)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		if replaced {
			o.logger.Warn("duplicate key binding, last registration wins",
				"keys", b.Keys.String(),
				"index", i)
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
