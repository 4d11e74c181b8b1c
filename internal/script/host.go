package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keychord/internal/input/keymap"
)

// DefaultTimeout bounds a single script load or command invocation.
const DefaultTimeout = 5 * time.Second

// Host owns a sandboxed Lua state and the bindings and commands its
// scripts registered.
type Host struct {
	mu sync.Mutex

	L *lua.LState

	logger  *slog.Logger
	timeout time.Duration

	keymap   *keymap.Keymap
	commands map[string]*lua.LFunction

	closed bool
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger used for script output and diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTimeout sets the execution deadline for loads and invocations.
// A non-positive duration disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// New creates a host with a fresh sandboxed state.
func New(opts ...Option) *Host {
	h := &Host{
		logger:   slog.Default(),
		timeout:  DefaultTimeout,
		keymap:   keymap.NewKeymap("script").WithSource("script"),
		commands: make(map[string]*lua.LFunction),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "script")

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.L)
	installSandbox(h.L, h.logger)
	h.registerModule()

	return h
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Not opened: io, os, debug, package, channel, coroutine
}

// installSandbox removes loaders that reach outside the state and routes
// print through the logger.
func installSandbox(L *lua.LState, logger *slog.Logger) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		logger.Info("script print", "text", joinArgs(L))
		return 0
	}))
}

// joinArgs renders every argument on the stack with tostring semantics.
func joinArgs(L *lua.LState) string {
	var out []byte
	for i := 1; i <= L.GetTop(); i++ {
		if i > 1 {
			out = append(out, '\t')
		}
		out = append(out, L.ToStringMeta(L.Get(i)).String()...)
	}
	return string(out)
}

// LoadFile runs the script at path.
func (h *Host) LoadFile(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}

	h.keymap.Source = "script:" + filepath.Base(path)
	if err := h.run(func() error { return h.L.DoFile(path) }); err != nil {
		return fmt.Errorf("load script %s: %w", path, err)
	}
	h.logger.Info("script loaded", "path", path, "bindings", len(h.keymap.Bindings), "commands", len(h.commands))
	return nil
}

// LoadString runs src as a script.
func (h *Host) LoadString(src string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}

	if err := h.run(func() error { return h.L.DoString(src) }); err != nil {
		return fmt.Errorf("load script: %w", err)
	}
	return nil
}

// Keymap returns a copy of the bindings registered so far.
func (h *Host) Keymap() *keymap.Keymap {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.keymap.Clone()
}

// Has reports whether a script registered a command called name.
func (h *Host) Has(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.commands[name]
	return ok
}

// Commands returns the registered command names in sorted order.
func (h *Host) Commands() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the Lua function registered for name.
func (h *Host) Invoke(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}

	fn, ok := h.commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	err := h.run(func() error {
		return h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if err != nil {
		return fmt.Errorf("script command %s: %w", name, err)
	}
	return nil
}

// Close releases the Lua state. Close is idempotent.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.L.Close()
	h.closed = true
	return nil
}

// run executes fn under the deadline with panic recovery.
// Callers must hold h.mu.
func (h *Host) run(fn func() error) (err error) {
	if h.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		h.L.SetContext(ctx)
		defer func() {
			h.L.RemoveContext()
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %w", ErrExecutionTimeout, err)
			}
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
