package input

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// DefaultTimeout is how long an ambiguous sequence waits for a longer match.
const DefaultTimeout = 1000 * time.Millisecond

// Interpreter errors.
var (
	ErrNilTrie        = errors.New("interpreter requires a binding trie")
	ErrNilEmit        = errors.New("interpreter requires an emit callback")
	ErrNilSubscribe   = errors.New("interpreter requires a subscribe function")
	ErrInvalidTimeout = errors.New("timeout must be positive")
	ErrAlreadyActive  = errors.New("interpreter is already active")
	ErrDisposed       = errors.New("interpreter is disposed")
)

// Config configures the chord interpreter.
type Config struct {
	// Timeout is how long to wait for a longer chord when the pending
	// sequence is itself bound. Default: 1000ms
	Timeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: DefaultTimeout,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTimeout, c.Timeout)
	}
	return nil
}

// Subscribe registers handler with a key event source and returns a
// function that removes it. Unsubscribe must be safe to call once.
type Subscribe func(handler func(key.Event)) (unsubscribe func())

// Option configures an Interpreter.
type Option func(*options)

type options struct {
	config    Config
	logger    *slog.Logger
	scheduler Scheduler
	policy    key.FocusPolicy
	metrics   *Metrics
	hooks     Hooks
	name      string
}

// WithConfig sets the interpreter configuration.
func WithConfig(c Config) Option {
	return func(o *options) { o.config = c }
}

// WithTimeout sets the ambiguity timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.config.Timeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithScheduler replaces the timer source.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithFocusPolicy sets the predicate deciding which event targets are eligible.
func WithFocusPolicy(p key.FocusPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithMetrics sets the metrics tracker, which may be shared.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithHooks sets state change observers.
func WithHooks(h Hooks) Option {
	return func(o *options) { o.hooks = h }
}

// WithName sets the name used in log records.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Interpreter turns a stream of tokens into commands by matching them
// against a binding trie.
//
// Key events and timer callbacks are serialized by one mutex, and emit
// runs while it is held, so each stimulus completes before the next is
// processed. emit must not call back into the same interpreter.
type Interpreter[C any] struct {
	mu sync.Mutex

	name      string
	config    Config
	trie      *keymap.Trie[C]
	emit      func(C)
	policy    key.FocusPolicy
	scheduler Scheduler
	metrics   *Metrics
	hooks     Hooks
	logger    *slog.Logger

	// pending holds tokens accumulated since the last reset.
	pending key.Sequence

	// timer is the live ambiguity timer, if any.
	timer Timer

	// generation invalidates timer callbacks that were already running
	// when their timer was cancelled.
	generation uint64

	unsubscribe func()
	active      bool
	disposed    bool
}

// NewInterpreter creates an interpreter over trie that reports resolved
// commands to emit.
func NewInterpreter[C any](trie *keymap.Trie[C], emit func(C), opts ...Option) (*Interpreter[C], error) {
	if trie == nil {
		return nil, ErrNilTrie
	}
	if emit == nil {
		return nil, ErrNilEmit
	}

	o := options{
		config:    DefaultConfig(),
		logger:    slog.Default(),
		scheduler: SystemScheduler,
		policy:    key.AnyTarget,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	if o.metrics == nil {
		o.metrics = NewMetrics()
	}
	if o.name == "" {
		o.name = uuid.NewString()
	}

	return &Interpreter[C]{
		name:      o.name,
		config:    o.config,
		trie:      trie,
		emit:      emit,
		policy:    o.policy,
		scheduler: o.scheduler,
		metrics:   o.metrics,
		hooks:     o.hooks,
		logger:    o.logger.With("component", "input", "interpreter", o.name),
	}, nil
}

// Activate registers HandleEvent with a key event source.
func (in *Interpreter[C]) Activate(sub Subscribe) error {
	if sub == nil {
		return ErrNilSubscribe
	}

	in.mu.Lock()
	if in.disposed {
		in.mu.Unlock()
		return ErrDisposed
	}
	if in.active {
		in.mu.Unlock()
		return ErrAlreadyActive
	}
	in.active = true
	in.mu.Unlock()

	// The source may deliver synchronously, so subscribe without the lock.
	unsubscribe := sub(in.HandleEvent)

	in.mu.Lock()
	if in.disposed {
		in.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
		return ErrDisposed
	}
	in.unsubscribe = unsubscribe
	in.mu.Unlock()

	in.logger.Debug("interpreter activated")
	return nil
}

// Dispose unsubscribes from the event source, cancels any live timer and
// clears pending state. A timer callback that fires afterwards does nothing.
// Safe to call when never activated and safe to call twice.
func (in *Interpreter[C]) Dispose() {
	in.mu.Lock()
	if in.disposed {
		in.mu.Unlock()
		return
	}
	in.disposed = true
	in.active = false
	in.reset()
	unsubscribe := in.unsubscribe
	in.unsubscribe = nil
	in.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	in.logger.Debug("interpreter disposed")
}

// HandleEvent filters and canonicalizes a raw key event and feeds the
// resulting token. Pure modifier presses and events aimed outside the
// focus scope are ignored.
func (in *Interpreter[C]) HandleEvent(e key.Event) {
	tok, ok := key.Filter(e, in.policy)
	if !ok {
		in.metrics.RecordFiltered()
		return
	}
	in.Feed(tok)
}

// Feed advances the state machine by one token.
func (in *Interpreter[C]) Feed(t key.Token) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.disposed {
		return
	}
	in.feed(t)
}

func (in *Interpreter[C]) feed(t key.Token) {
	in.metrics.RecordToken()

	// A running timer belonged to the shorter candidate.
	if in.cancelTimer() {
		in.metrics.RecordSuperseded()
	}

	candidate := in.pending.Append(t)
	node, ok := in.trie.Find(candidate)
	if !ok {
		// No fallback to a shorter bound prefix.
		in.metrics.RecordMismatch()
		in.logger.Debug("chord mismatch", "keys", candidate.String())
		in.hooks.mismatch(candidate)
		in.setPending(nil)
		return
	}

	cmd, bound := node.Command()
	switch {
	case bound && !node.HasChildren():
		in.setPending(nil)
		in.fire(candidate, cmd, ResolveImmediate)
	case bound:
		in.setPending(candidate)
		in.startTimer(candidate, cmd)
	default:
		// Pure prefix: nothing to fire, so nothing to time out.
		in.setPending(candidate)
	}
}

func (in *Interpreter[C]) startTimer(seq key.Sequence, cmd C) {
	in.generation++
	gen := in.generation
	in.timer = in.scheduler.AfterFunc(in.config.Timeout, func() {
		in.handleTimeout(gen, seq, cmd)
	})
}

// handleTimeout is called when the ambiguity timer fires.
func (in *Interpreter[C]) handleTimeout(gen uint64, seq key.Sequence, cmd C) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.disposed || gen != in.generation {
		return
	}

	in.timer = nil
	in.reset()
	in.fire(seq, cmd, ResolveTimeout)
}

// cancelTimer stops the live timer and invalidates any callback already
// in flight. Reports whether a timer was stopped before it fired.
func (in *Interpreter[C]) cancelTimer() bool {
	in.generation++
	if in.timer == nil {
		return false
	}
	stopped := in.timer.Stop()
	in.timer = nil
	return stopped
}

// reset returns to Idle.
func (in *Interpreter[C]) reset() {
	in.cancelTimer()
	in.setPending(nil)
}

func (in *Interpreter[C]) setPending(seq key.Sequence) {
	if len(seq) == 0 && len(in.pending) == 0 {
		in.pending = nil
		return
	}
	in.pending = seq
	in.hooks.pending(seq)
}

func (in *Interpreter[C]) fire(seq key.Sequence, cmd C, how Resolution) {
	in.metrics.RecordFire(how)
	in.logger.Debug("chord resolved", "keys", seq.String(), "resolution", how.String())
	in.hooks.resolve(seq, how)
	in.emit(cmd)
}

// SetTrie swaps the binding trie and resets any partial chord.
func (in *Interpreter[C]) SetTrie(trie *keymap.Trie[C]) error {
	if trie == nil {
		return ErrNilTrie
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	in.reset()
	in.trie = trie
	in.logger.Info("bindings replaced", "bindings", trie.Len())
	return nil
}

// Pending returns a copy of the pending token sequence.
func (in *Interpreter[C]) Pending() key.Sequence {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pending.Clone()
}

// State returns the current matching state.
func (in *Interpreter[C]) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.pending) == 0 {
		return StateIdle
	}
	return StatePending
}

// Active returns true if the interpreter is subscribed to an event source.
func (in *Interpreter[C]) Active() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.active
}

// Disposed returns true if Dispose has been called.
func (in *Interpreter[C]) Disposed() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.disposed
}

// Name returns the interpreter name.
func (in *Interpreter[C]) Name() string {
	return in.name
}

// Timeout returns the configured ambiguity timeout.
func (in *Interpreter[C]) Timeout() time.Duration {
	return in.config.Timeout
}

// Metrics returns the metrics tracker.
func (in *Interpreter[C]) Metrics() *Metrics {
	return in.metrics
}
