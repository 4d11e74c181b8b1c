package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const waitTimeout = 5 * time.Second

func newTestWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func collect(w *Watcher) <-chan Event {
	ch := make(chan Event, 64)
	w.OnChange(func(e Event) {
		select {
		case ch <- e:
		default:
		}
	})
	return ch
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Operation(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	w := newTestWatcher(t)

	if w.debounce != 100*time.Millisecond {
		t.Errorf("debounce = %v, want 100ms", w.debounce)
	}
	if w.IsRunning() {
		t.Error("new watcher should not be running")
	}
	if len(w.WatchedFiles()) != 0 {
		t.Error("new watcher should not watch any files")
	}
}

func TestWithDebounce(t *testing.T) {
	w := newTestWatcher(t, WithDebounce(0))
	if w.debounce != 0 {
		t.Errorf("debounce = %v, want 0", w.debounce)
	}

	w2 := newTestWatcher(t, WithDebounce(-time.Second))
	if w2.debounce != 100*time.Millisecond {
		t.Errorf("negative debounce should be ignored, got %v", w2.debounce)
	}
}

func TestWatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")

	w := newTestWatcher(t)

	if err := w.Watch(b); err != nil {
		t.Fatalf("Watch(b) error = %v", err)
	}
	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch(a) error = %v", err)
	}
	// Watching twice is a no-op
	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch(a) again error = %v", err)
	}

	files := w.WatchedFiles()
	if len(files) != 2 || files[0] != a || files[1] != b {
		t.Errorf("WatchedFiles() = %v, want [%s %s]", files, a, b)
	}
	if w.dirs[dir] != 2 {
		t.Errorf("dir refcount = %d, want 2", w.dirs[dir])
	}

	if err := w.Unwatch(a); err != nil {
		t.Fatalf("Unwatch(a) error = %v", err)
	}
	if err := w.Unwatch(b); err != nil {
		t.Fatalf("Unwatch(b) error = %v", err)
	}
	if len(w.WatchedFiles()) != 0 {
		t.Errorf("WatchedFiles() = %v, want empty", w.WatchedFiles())
	}
	if _, ok := w.dirs[dir]; ok {
		t.Error("directory should no longer be watched")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := newTestWatcher(t)

	err := w.Watch(filepath.Join(t.TempDir(), "nope", "keys.yaml"))
	if err == nil {
		t.Error("expected error watching file in missing directory")
	}
}

func TestDetectWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, WithDebounce(0))
	events := collect(w)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("a: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := waitEvent(t, events)
	if e.Path != path {
		t.Errorf("event path = %q, want %q", e.Path, path)
	}
	if e.Op != OpWrite && e.Op != OpCreate {
		t.Errorf("event op = %v, want write or create", e.Op)
	}
}

func TestIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "keys.yaml")
	other := filepath.Join(dir, "other.txt")

	w := newTestWatcher(t, WithDebounce(0))
	events := collect(w)
	if err := w.Watch(watched); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(watched, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}

	// The first event must be for the watched file
	e := waitEvent(t, events)
	if e.Path != watched {
		t.Errorf("event path = %q, want %q", e.Path, watched)
	}
}

func TestDebounceCoalesces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "init.lua")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, WithDebounce(50*time.Millisecond))
	events := collect(w)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	for i := range 5 {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	e := waitEvent(t, events)
	if e.Path != path {
		t.Errorf("event path = %q, want %q", e.Path, path)
	}

	// The burst should have collapsed into one delivery
	select {
	case extra := <-events:
		t.Errorf("unexpected extra event %+v", extra)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestQueueEventCoalescing(t *testing.T) {
	w := newTestWatcher(t)
	now := time.Now()

	w.queueEvent(Event{Path: "/x", Op: OpCreate, Time: now})
	w.queueEvent(Event{Path: "/x", Op: OpWrite, Time: now.Add(time.Millisecond)})
	if got := w.pendingFiles["/x"].Op; got != OpCreate {
		t.Errorf("create + write = %v, want create", got)
	}

	w.queueEvent(Event{Path: "/x", Op: OpRemove, Time: now.Add(2 * time.Millisecond)})
	if got := w.pendingFiles["/x"].Op; got != OpRemove {
		t.Errorf("create + remove = %v, want remove", got)
	}

	w.queueEvent(Event{Path: "/y", Op: OpWrite, Time: now})
	w.queueEvent(Event{Path: "/y", Op: OpWrite, Time: now.Add(5 * time.Millisecond)})
	if got := w.pendingFiles["/y"].Time; !got.Equal(now.Add(5 * time.Millisecond)) {
		t.Errorf("write + write time = %v, want latest", got)
	}
}

func TestHandlerPanicRecovered(t *testing.T) {
	w := newTestWatcher(t)

	called := false
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(func(Event) { called = true })

	w.emitEvent(Event{Path: "/x", Op: OpWrite, Time: time.Now()})
	if !called {
		t.Error("second handler should run after first panics")
	}
}

func TestStartTwice(t *testing.T) {
	w := newTestWatcher(t)

	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != ErrAlreadyRunning {
		t.Errorf("second Start() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestStopOnContextCancel(t *testing.T) {
	w := newTestWatcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()

	deadline := time.Now().Add(waitTimeout)
	for w.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("watcher still running after cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestClose(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if w.IsRunning() {
		t.Error("watcher should not be running after Close")
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Watch("x"); err != ErrWatcherClosed {
		t.Errorf("Watch after Close error = %v, want ErrWatcherClosed", err)
	}
	if err := w.Start(context.Background()); err != ErrWatcherClosed {
		t.Errorf("Start after Close error = %v, want ErrWatcherClosed", err)
	}
}
