package terminal

import (
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keychord/internal/input/key"
)

// Source delivers key presses from a tcell screen to subscribers.
//
// The poll loop starts with the first subscription and runs on its own
// goroutine until Close. Handlers are called from that goroutine.
type Source struct {
	screen tcell.Screen
	target any
	logger *slog.Logger

	mu       sync.Mutex
	handlers map[uint64]func(key.Event)
	nextID   uint64
	onResize func(width, height int)

	started bool
	closed  bool
	quit    chan struct{}
	done    chan struct{}
}

// Option configures a Source.
type Option func(*Source)

// WithTarget sets the focus target stamped on every event.
func WithTarget(target any) Option {
	return func(s *Source) {
		s.target = target
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a source over an initialized screen.
func New(screen tcell.Screen, opts ...Option) *Source {
	s := &Source{
		screen:   screen,
		logger:   slog.Default(),
		handlers: make(map[uint64]func(key.Event)),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "terminal")
	return s
}

// Subscribe registers handler for key events and returns a function that
// removes it. A delivery already in flight may still reach the handler.
func (s *Source) Subscribe(handler func(key.Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.handlers[id] = handler

	if !s.started && !s.closed {
		s.started = true
		go s.pollLoop()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.handlers, id)
			s.mu.Unlock()
		})
	}
}

// OnResize registers a callback for terminal resize events.
func (s *Source) OnResize(fn func(width, height int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResize = fn
}

// Subscribers returns the number of registered handlers.
func (s *Source) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

// Close stops the poll loop and waits for it to exit. The screen is not
// finalized; that remains the caller's job.
func (s *Source) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	started := s.started
	close(s.quit)
	s.mu.Unlock()

	if !started {
		return
	}
	// Wake PollEvent so the loop observes quit
	_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	<-s.done
}

// pollLoop reads screen events until Close or screen finalization.
func (s *Source) pollLoop() {
	defer close(s.done)

	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}

		select {
		case <-s.quit:
			return
		default:
		}

		switch e := ev.(type) {
		case *tcell.EventKey:
			ke, ok := ConvertKey(e)
			if !ok {
				s.logger.Debug("unmapped key", "key", e.Name())
				continue
			}
			ke.Target = s.target
			s.deliver(ke)

		case *tcell.EventResize:
			s.mu.Lock()
			fn := s.onResize
			s.mu.Unlock()
			if fn != nil {
				w, h := e.Size()
				fn(w, h)
			}
		}
	}
}

// deliver calls every handler outside the lock.
func (s *Source) deliver(e key.Event) {
	s.mu.Lock()
	handlers := make([]func(key.Event), 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}
