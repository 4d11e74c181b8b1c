// Package app provides the main application structure and coordination
// for the keychord host. It wires configuration, key bindings, the
// terminal and the chord interpreter together and manages their lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/config/watcher"
	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/logging"
	"github.com/dshills/keychord/internal/script"
	"github.com/dshills/keychord/internal/terminal"
)

// view selects what the panel shows.
type view int

const (
	viewBindings view = iota
	viewHistory
)

// Application is the central coordinator for all keychord components.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	config    config.Config
	logger    *slog.Logger
	sessionID string

	// Terminal components
	screen tcell.Screen
	source *terminal.Source
	status *terminal.StatusLine
	panel  *terminal.Panel

	// Bindings and execution
	loader  *keymap.Loader
	script  *script.Host
	keymap  *keymap.Keymap
	interp  *input.Interpreter[string]
	queue   *input.Queue[string]
	router  *input.Router
	watcher *watcher.Watcher

	// Display state
	view    view
	history []string

	// State
	running      atomic.Bool
	done         chan struct{}
	quitOnce     sync.Once
	shutdownOnce sync.Once
}

// Options configures the application.
type Options struct {
	// Config holds the resolved settings.
	Config config.Config

	// Logger receives application logs. Nil discards them.
	Logger *slog.Logger

	// Screen overrides the terminal screen, e.g. with a simulation screen.
	// It must not be initialized yet; Run initializes and finalizes it.
	Screen tcell.Screen

	// Scheduler overrides the interpreter's timer source.
	Scheduler input.Scheduler
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	sessionID := uuid.NewString()

	app := &Application{
		config:    opts.Config,
		logger:    logger.With("session", sessionID),
		sessionID: sessionID,
		done:      make(chan struct{}),
	}

	if err := app.bootstrap(opts); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap(opts Options) error {
	// 1. Config
	if err := app.config.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	// 2. Terminal
	app.screen = opts.Screen
	if app.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return &InitError{Component: "screen", Err: err}
		}
		app.screen = screen
	}
	app.source = terminal.New(app.screen, terminal.WithLogger(app.logger))
	app.status = terminal.NewStatusLine(app.screen)
	app.panel = terminal.NewPanel(app.screen)

	// 3. Command routing
	app.router = input.NewRouter(app.logger)
	app.router.SetFallback(app.fallback)
	app.registerHandlers()
	app.queue = input.NewQueue[string](0)

	// 4. Bindings
	app.loader = keymap.NewLoader(app.logger)
	km, trie, host, err := app.loadBindings()
	if err != nil {
		return &InitError{Component: "bindings", Err: err}
	}
	app.keymap = km
	app.script = host

	// 5. Interpreter
	interpOpts := []input.Option{
		input.WithTimeout(app.config.Timeout.Std()),
		input.WithLogger(app.logger),
		input.WithHooks(app.status.Hooks()),
	}
	if opts.Scheduler != nil {
		interpOpts = append(interpOpts, input.WithScheduler(opts.Scheduler))
	}
	app.interp, err = input.NewInterpreter(trie, app.queue.Emit, interpOpts...)
	if err != nil {
		return &InitError{Component: "interpreter", Err: err}
	}

	// 6. Live reload
	if app.config.Watch {
		if err := app.initWatcher(); err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
	}

	return nil
}

// initWatcher watches the keymap and script files, if any.
func (app *Application) initWatcher() error {
	var paths []string
	for _, p := range []string{app.config.KeymapPath, app.config.ScriptPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil
	}

	w, err := watcher.New(watcher.WithLogger(app.logger))
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := w.Watch(p); err != nil {
			_ = w.Close()
			return err
		}
	}
	w.OnChange(func(e watcher.Event) {
		if e.Op == watcher.OpRemove || e.Op == watcher.OpRename {
			app.logger.Warn("bindings file went away, keeping current bindings", "path", e.Path)
			return
		}
		_ = app.Reload()
	})
	app.watcher = w
	return nil
}

// Run starts the application and blocks until Quit, Shutdown or ctx
// cancellation.
func (app *Application) Run(ctx context.Context) error {
	select {
	case <-app.done:
		return ErrShutdown
	default:
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer app.screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Commands execute here, outside the interpreter lock
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.queue.Run(ctx, app.execute)
	}()

	if app.watcher != nil {
		if err := app.watcher.Start(ctx); err != nil {
			app.logger.Warn("live reload disabled", "error", err)
		}
	}

	app.source.OnResize(func(int, int) {
		app.screen.Sync()
		app.draw()
	})
	app.refreshPanel()
	app.draw()

	if err := app.interp.Activate(app.source.Subscribe); err != nil {
		return &InitError{Component: "interpreter", Err: err}
	}
	app.logger.Info("keychord started",
		"interpreter", app.interp.Name(),
		"timeout", app.interp.Timeout(),
		"bindings", len(app.Keymap().Bindings),
	)

	select {
	case <-ctx.Done():
	case <-app.done:
	}

	app.interp.Dispose()
	app.source.Close()
	cancel()
	wg.Wait()

	app.logMetrics()
	return nil
}

// Quit asks Run to return.
func (app *Application) Quit() {
	app.quitOnce.Do(func() {
		close(app.done)
	})
}

// Shutdown stops Run if needed and releases every component. It is safe
// to call more than once.
func (app *Application) Shutdown() {
	app.Quit()
	app.shutdownOnce.Do(app.cleanup)
}

// cleanup releases components in reverse initialization order.
func (app *Application) cleanup() {
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logger.Warn("closing watcher", "error", err)
		}
	}
	if app.interp != nil {
		app.interp.Dispose()
	}
	if app.source != nil {
		app.source.Close()
	}
	if app.queue != nil {
		app.queue.Close()
	}

	app.mu.Lock()
	host := app.script
	app.script = nil
	app.mu.Unlock()
	if host != nil {
		_ = host.Close()
	}
}

// logMetrics records the session's interpreter counters.
func (app *Application) logMetrics() {
	s := app.interp.Metrics().Snapshot()
	app.logger.Info("session metrics",
		"tokens", s.TokensTotal,
		"filtered", s.FilteredEvents,
		"immediate", s.ImmediateFires,
		"timeout", s.TimeoutFires,
		"mismatches", s.Mismatches,
		"superseded_timers", s.SupersededTimers,
		"dropped_commands", app.queue.Dropped(),
		"uptime", s.Uptime,
	)
}

// draw renders the panel and status line while running.
func (app *Application) draw() {
	if !app.running.Load() {
		return
	}
	app.panel.Draw()
	app.status.Draw()
}

// refreshPanel loads the panel with the current view's lines.
func (app *Application) refreshPanel() {
	app.mu.RLock()
	v := app.view
	km := app.keymap
	history := make([]string, len(app.history))
	copy(history, app.history)
	app.mu.RUnlock()

	switch v {
	case viewHistory:
		app.panel.SetTitle("Command history")
		app.panel.SetLines(history)
	default:
		app.panel.SetTitle(fmt.Sprintf("keychord: %d bindings from %s (? help, q quit)", len(km.Bindings), km.Source))
		app.panel.SetLines(terminal.BindingLines(km.Bindings))
	}
}

// setView switches the panel view.
func (app *Application) setView(v view) {
	app.mu.Lock()
	app.view = v
	app.mu.Unlock()
	app.refreshPanel()
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// SessionID returns the unique id of this run, also attached to every log record.
func (app *Application) SessionID() string {
	return app.sessionID
}

// Keymap returns a copy of the effective bindings.
func (app *Application) Keymap() *keymap.Keymap {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.keymap.Clone()
}

// Interpreter returns the chord interpreter.
func (app *Application) Interpreter() *input.Interpreter[string] {
	return app.interp
}

// Panel returns the main panel.
func (app *Application) Panel() *terminal.Panel {
	return app.panel
}

// Status returns the status line.
func (app *Application) Status() *terminal.StatusLine {
	return app.status
}

// History returns the executed commands, oldest first.
func (app *Application) History() []string {
	app.mu.RLock()
	defer app.mu.RUnlock()
	out := make([]string, len(app.history))
	copy(out, app.history)
	return out
}
