package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func collect(w *Watcher) (func() []Event, <-chan struct{}) {
	var mu sync.Mutex
	var events []Event
	signal := make(chan struct{}, 16)
	w.OnChange(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
		signal <- struct{}{}
	})
	return func() []Event {
		mu.Lock()
		defer mu.Unlock()
		return append([]Event(nil), events...)
	}, signal
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.toml")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	w := New(WithDebounce(50 * time.Millisecond))
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	events, signal := collect(w)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte{byte('b' + i)}, 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-signal:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	// Allow a straggling event to be coalesced or delivered.
	time.Sleep(150 * time.Millisecond)
	got := events()
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1 coalesced event: %v", len(got), got)
	}
	abs, _ := filepath.Abs(path)
	if got[0].Path != abs {
		t.Errorf("Path = %q, want %q", got[0].Path, abs)
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.toml")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	w := New(WithDebounce(20 * time.Millisecond))
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	events, _ := collect(w)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if got := events(); len(got) != 0 {
		t.Errorf("sibling write produced events: %v", got)
	}
}

func TestWatcher_WatchDirReportsFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}

	w := New(WithDebounce(20 * time.Millisecond))
	if err := w.WatchDir(dir); err != nil {
		t.Fatal(err)
	}
	events, signal := collect(w)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "extra.yaml")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-signal:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	// Files below a nested directory are not reported.
	if err := os.WriteFile(filepath.Join(sub, "deep.yaml"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)

	got := events()
	abs, _ := filepath.Abs(path)
	if len(got) != 1 || got[0].Path != abs {
		t.Errorf("events = %v, want one for %s", got, abs)
	}
}

func TestWatcher_QueueCoalescing(t *testing.T) {
	tests := []struct {
		name string
		ops  []Operation
		want Operation
	}{
		{"write then write", []Operation{OpWrite, OpWrite}, OpWrite},
		{"create then write", []Operation{OpCreate, OpWrite}, OpCreate},
		{"write then remove", []Operation{OpWrite, OpRemove}, OpRemove},
		{"remove then create", []Operation{OpRemove, OpCreate}, OpCreate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(WithDebounce(30 * time.Millisecond))
			events, signal := collect(w)

			for _, op := range tt.ops {
				w.queueEvent(Event{Path: "/x", Op: op, Time: time.Now()})
			}

			select {
			case <-signal:
			case <-time.After(time.Second):
				t.Fatal("no event delivered")
			}
			got := events()
			if len(got) != 1 || got[0].Op != tt.want {
				t.Errorf("events = %v, want one %s", got, tt.want)
			}
		})
	}
}

func TestWatcher_ZeroDebounceDeliversImmediately(t *testing.T) {
	w := New(WithDebounce(0))
	events, _ := collect(w)

	w.queueEvent(Event{Path: "/x", Op: OpWrite})
	w.queueEvent(Event{Path: "/x", Op: OpWrite})

	if got := events(); len(got) != 2 {
		t.Errorf("got %d events, want 2", len(got))
	}
}

func TestWatcher_UnwatchDropsPending(t *testing.T) {
	w := New(WithDebounce(30 * time.Millisecond))
	if err := w.Watch("/tmp/x.toml"); err != nil {
		t.Fatal(err)
	}
	events, _ := collect(w)

	w.queueEvent(Event{Path: "/tmp/x.toml", Op: OpWrite})
	if err := w.Unwatch("/tmp/x.toml"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	if got := events(); len(got) != 0 {
		t.Errorf("events after Unwatch = %v", got)
	}
	if files := w.WatchedFiles(); len(files) != 0 {
		t.Errorf("WatchedFiles = %v", files)
	}
}

func TestWatcher_HandlerPanicRecovered(t *testing.T) {
	w := New(WithDebounce(0))
	w.OnChange(func(Event) { panic("boom") })
	var called bool
	w.OnChange(func(Event) { called = true })

	w.queueEvent(Event{Path: "/x", Op: OpWrite})
	if !called {
		t.Error("second handler not called after first panicked")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	w := New()
	if w.IsRunning() {
		t.Error("running before Start")
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if !w.IsRunning() {
		t.Error("not running after Start")
	}
	w.Stop()
	w.Stop()
	if w.IsRunning() {
		t.Error("running after Stop")
	}
}

func TestConvertOp(t *testing.T) {
	tests := []struct {
		in   fsnotify.Op
		want Operation
		ok   bool
	}{
		{fsnotify.Write, OpWrite, true},
		{fsnotify.Create, OpCreate, true},
		{fsnotify.Create | fsnotify.Write, OpCreate, true},
		{fsnotify.Remove, OpRemove, true},
		{fsnotify.Rename, OpRename, true},
		{fsnotify.Chmod, 0, false},
	}

	for _, tt := range tests {
		got, ok := convertOp(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("convertOp(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
