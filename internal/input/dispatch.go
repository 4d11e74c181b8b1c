package input

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
)

// ErrUnknownCommand is returned when no handler is registered for a command.
var ErrUnknownCommand = errors.New("unknown command")

// Queue decouples emit from command execution. Its Emit method can be
// passed to NewInterpreter; Run executes commands on the caller's
// goroutine, outside the interpreter lock, so handlers may call back
// into the interpreter.
type Queue[C any] struct {
	mu      sync.Mutex
	ch      chan C
	closed  bool
	dropped atomic.Uint64
}

// NewQueue creates a queue buffering up to size commands.
func NewQueue[C any](size int) *Queue[C] {
	if size <= 0 {
		size = 100
	}
	return &Queue[C]{ch: make(chan C, size)}
}

// Emit enqueues a command without blocking. When the buffer is full the
// oldest command is dropped.
func (q *Queue[C]) Emit(cmd C) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	select {
	case q.ch <- cmd:
		return
	default:
	}

	// Channel full - drop oldest and try again
	select {
	case <-q.ch:
		q.dropped.Add(1)
	default:
	}
	select {
	case q.ch <- cmd:
	default:
		q.dropped.Add(1)
	}
}

// Commands returns the channel of queued commands.
func (q *Queue[C]) Commands() <-chan C {
	return q.ch
}

// Run calls handler for every queued command until ctx is done or the
// queue is closed.
func (q *Queue[C]) Run(ctx context.Context, handler func(C)) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-q.ch:
			if !ok {
				return
			}
			handler(cmd)
		}
	}
}

// Close closes the queue. Later Emit calls are ignored.
func (q *Queue[C]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}

// Dropped returns the number of commands lost to overflow.
func (q *Queue[C]) Dropped() uint64 {
	return q.dropped.Load()
}

// Router maps command names to handlers.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]func() error
	fallback func(name string) error
	logger   *slog.Logger
}

// NewRouter creates an empty router.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		handlers: make(map[string]func() error),
		logger:   logger.With("component", "router"),
	}
}

// Handle registers fn for name, replacing any earlier handler.
func (r *Router) Handle(name string, fn func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = fn
}

// SetFallback sets the handler for names with no registered handler.
func (r *Router) SetFallback(fn func(name string) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = fn
}

// Has reports whether a handler is registered for name.
func (r *Router) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Names returns the registered command names in sorted order.
func (r *Router) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the handler registered for name.
func (r *Router) Dispatch(name string) error {
	r.mu.RLock()
	fn, ok := r.handlers[name]
	fallback := r.fallback
	r.mu.RUnlock()

	switch {
	case ok:
		if err := fn(); err != nil {
			return fmt.Errorf("command %s: %w", name, err)
		}
		return nil
	case fallback != nil:
		return fallback(name)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
}

// Execute dispatches name and logs any error. It has the shape of a
// Queue handler.
func (r *Router) Execute(name string) {
	if err := r.Dispatch(name); err != nil {
		r.logger.Warn("command failed", "command", name, "error", err)
	}
}
