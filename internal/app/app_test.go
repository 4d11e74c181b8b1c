package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/dshills/keychord/internal/config"
)

const waitTimeout = 5 * time.Second

// syncBuffer is a bytes.Buffer safe for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Timeout = config.Duration(30 * time.Millisecond)
	cfg.Watch = false
	return cfg
}

type testApp struct {
	*Application
	screen tcell.SimulationScreen
	logs   *syncBuffer
	result chan error
}

func newTestApp(t *testing.T, cfg config.Config) *testApp {
	t.Helper()

	logs := &syncBuffer{}
	screen := tcell.NewSimulationScreen("")
	app, err := New(Options{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Screen: screen,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(app.Shutdown)

	return &testApp{Application: app, screen: screen, logs: logs, result: make(chan error, 1)}
}

// start runs the application and waits until it is reading keys.
func (ta *testApp) start(t *testing.T, ctx context.Context) {
	t.Helper()
	go func() { ta.result <- ta.Run(ctx) }()
	waitFor(t, "interpreter active", ta.Interpreter().Active)
}

func (ta *testApp) press(keys ...rune) {
	for _, r := range keys {
		ta.screen.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
}

func (ta *testApp) waitExit(t *testing.T) {
	t.Helper()
	select {
	case err := <-ta.result:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(waitTimeout):
		t.Fatal("Run() did not return")
	}
}

func (ta *testApp) historyContains(s string) bool {
	for _, line := range ta.History() {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewApplication(t *testing.T) {
	cfg := testConfig()
	cfg.Watch = true
	app := newTestApp(t, cfg)

	if app.IsRunning() {
		t.Error("expected IsRunning() to be false before Run()")
	}
	if _, err := uuid.Parse(app.SessionID()); err != nil {
		t.Errorf("SessionID() = %q is not a uuid: %v", app.SessionID(), err)
	}
	if got := app.Keymap().Source; got != "default" {
		t.Errorf("Keymap().Source = %q, want default", got)
	}
	if app.Interpreter().Timeout() != 30*time.Millisecond {
		t.Errorf("Timeout() = %v, want 30ms", app.Interpreter().Timeout())
	}
	if app.watcher != nil {
		t.Error("watcher should not start without files to watch")
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 0

	_, err := New(Options{Config: cfg, Screen: tcell.NewSimulationScreen("")})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("New() error = %v, want ErrInvalidConfig", err)
	}
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Component != "config" {
		t.Errorf("error = %v, want config InitError", err)
	}
}

func TestNewBadKeymap(t *testing.T) {
	cfg := testConfig()
	cfg.KeymapPath = writeFile(t, t.TempDir(), "keys.yaml", "bindings: [")

	_, err := New(Options{Config: cfg, Screen: tcell.NewSimulationScreen("")})
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Component != "bindings" {
		t.Fatalf("New() error = %v, want bindings InitError", err)
	}
	var cerr *ComponentError
	if !errors.As(err, &cerr) || cerr.Component != "keymap" {
		t.Errorf("error = %v, want keymap ComponentError", err)
	}
}

func TestNewBadScript(t *testing.T) {
	cfg := testConfig()
	cfg.ScriptPath = writeFile(t, t.TempDir(), "init.lua", `keychord.map("<C-Bogus!>", "x")`)

	_, err := New(Options{Config: cfg, Screen: tcell.NewSimulationScreen("")})
	var cerr *ComponentError
	if !errors.As(err, &cerr) || cerr.Component != "script" {
		t.Fatalf("New() error = %v, want script ComponentError", err)
	}
}

func TestRunDispatchesCommands(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.start(t, context.Background())

	app.press('j', 'j', 'k', 'j', 'q')
	app.waitExit(t)

	if got := app.Panel().Selected(); got != 2 {
		t.Errorf("Panel().Selected() = %d, want 2", got)
	}
	history := app.History()
	if len(history) != 5 {
		t.Fatalf("History() = %q, want 5 commands", history)
	}
	if !strings.HasSuffix(history[4], "app.quit") {
		t.Errorf("last command = %q, want app.quit", history[4])
	}
	if !strings.Contains(app.logs.String(), "session metrics") {
		t.Error("expected session metrics to be logged on exit")
	}
}

func TestRunAmbiguousTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = config.Duration(200 * time.Millisecond)
	app := newTestApp(t, cfg)
	app.start(t, context.Background())

	app.press('g')
	waitFor(t, "stream.next", func() bool { return app.historyContains("stream.next") })

	app.press('g', 'g')
	waitFor(t, "scroll.top", func() bool { return app.historyContains("scroll.top") })

	app.press('q')
	app.waitExit(t)

	s := app.Interpreter().Metrics().Snapshot()
	if s.TimeoutFires != 1 {
		t.Errorf("TimeoutFires = %d, want 1", s.TimeoutFires)
	}
}

func TestRunUnhandledCommand(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.start(t, context.Background())

	app.press('o')
	waitFor(t, "status message", func() bool {
		left, _ := app.Status().Text()
		return left == "entry.open (no handler)"
	})

	app.Quit()
	app.waitExit(t)
}

func TestRunMismatchShowsStatus(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.start(t, context.Background())

	app.press('s', 'x')
	waitFor(t, "mismatch message", func() bool {
		left, _ := app.Status().Text()
		return left == "s x is not bound"
	})

	app.Quit()
	app.waitExit(t)
}

func TestRunHandlerPanic(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.router.Handle("entry.open", func() error { panic("boom") })
	app.start(t, context.Background())

	app.press('o', 'j')
	waitFor(t, "entry.next", func() bool { return app.historyContains("entry.next") })

	if !app.historyContains("panicked") {
		t.Errorf("History() = %q, want recorded panic", app.History())
	}
	app.Quit()
	app.waitExit(t)
}

func TestRunToggleHistoryView(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.start(t, context.Background())

	app.press('j', '|')
	waitFor(t, "history view", func() bool {
		app.mu.RLock()
		defer app.mu.RUnlock()
		return app.view == viewHistory
	})

	app.screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	waitFor(t, "bindings view", func() bool {
		app.mu.RLock()
		defer app.mu.RUnlock()
		return app.view == viewBindings
	})

	app.Quit()
	app.waitExit(t)
}

func TestRunContextCancel(t *testing.T) {
	app := newTestApp(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	app.start(t, ctx)
	cancel()
	app.waitExit(t)

	if app.IsRunning() {
		t.Error("expected IsRunning() to be false after Run returns")
	}
	if !app.Interpreter().Disposed() {
		t.Error("interpreter should be disposed after Run returns")
	}
}

func TestRunTwice(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.start(t, context.Background())

	if err := app.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}

	app.Quit()
	app.waitExit(t)
}

func TestRunAfterShutdown(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.Shutdown()
	app.Shutdown()

	if err := app.Run(context.Background()); !errors.Is(err, ErrShutdown) {
		t.Errorf("Run() after Shutdown error = %v, want ErrShutdown", err)
	}
}

func TestKeymapFileOverridesDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.KeymapPath = writeFile(t, t.TempDir(), "keys.toml", `
[[bindings]]
keys = "x"
command = "app.quit"
`)

	app := newTestApp(t, cfg)
	app.start(t, context.Background())

	app.press('x')
	app.waitExit(t)
}

func TestScriptCommand(t *testing.T) {
	cfg := testConfig()
	cfg.ScriptPath = writeFile(t, t.TempDir(), "init.lua", `
keychord.map("x", "demo.hello", "Say hello")
keychord.command("demo.hello", function()
  keychord.log("hello from script")
end)
`)

	app := newTestApp(t, cfg)
	if got := app.Keymap().Source; got != "script:init.lua" {
		t.Errorf("Keymap().Source = %q, want script:init.lua", got)
	}
	app.start(t, context.Background())

	app.press('x')
	waitFor(t, "script output", func() bool {
		return strings.Contains(app.logs.String(), "hello from script")
	})

	app.press('q')
	app.waitExit(t)
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.KeymapPath = writeFile(t, dir, "keys.yaml", "bindings:\n  - keys: y\n    command: entry.next\n")

	app := newTestApp(t, cfg)
	app.start(t, context.Background())

	writeFile(t, dir, "keys.yaml", "bindings:\n  - keys: z\n    command: app.quit\n")
	if err := app.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	// A broken file keeps the current bindings
	writeFile(t, dir, "keys.yaml", "bindings: [")
	if err := app.Reload(); err == nil {
		t.Fatal("Reload() with broken file should fail")
	}
	if left, _ := app.Status().Text(); !strings.HasPrefix(left, "reload failed") {
		t.Errorf("status = %q, want reload failure", left)
	}

	app.press('z')
	app.waitExit(t)
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.Watch = true
	cfg.KeymapPath = writeFile(t, dir, "keys.yaml", "bindings:\n  - keys: y\n    command: entry.next\n")

	app := newTestApp(t, cfg)
	if app.watcher == nil {
		t.Fatal("watcher should start when a keymap file is set")
	}
	app.start(t, context.Background())

	writeFile(t, dir, "keys.yaml", "bindings:\n  - keys: z\n    command: app.quit\n")
	waitFor(t, "reloaded bindings", func() bool {
		for _, e := range app.Keymap().Bindings {
			if e.Keys == "z" {
				return true
			}
		}
		return false
	})

	app.press('z')
	app.waitExit(t)
}
