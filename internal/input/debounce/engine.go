package debounce

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/hotkeys/internal/input/hotkey"
	"github.com/dshills/hotkeys/internal/input/key"
)

// Callback receives the text accumulated during a burst and the events
// that produced it, in arrival order.
type Callback func(text string, events []key.Event)

// ListenerID identifies a registered listener.
type ListenerID uuid.UUID

// String returns the canonical UUID form.
func (id ListenerID) String() string {
	return uuid.UUID(id).String()
}

// listener is one debounce buffer.
type listener struct {
	id    ListenerID
	quiet time.Duration
	cb    Callback

	text        strings.Builder
	events      []key.Event
	windowStart time.Time
	active      bool

	timer   Timer
	gen     uint64
	removed bool
}

// take returns the buffered burst and resets the listener to idle.
// Caller must hold the engine lock.
func (l *listener) take() (string, []key.Event) {
	text := l.text.String()
	events := l.events

	l.text.Reset()
	l.events = nil
	l.windowStart = time.Time{}
	l.active = false
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.gen++
	return text, events
}

// delivery is a callback invocation collected under the lock.
type delivery struct {
	cb     Callback
	text   string
	events []key.Event
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// Engine manages debounce listeners.
type Engine struct {
	mu        sync.Mutex
	clock     Clock
	listeners []*listener
}

// NewEngine creates an engine with no listeners.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		clock: realClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddListener registers a callback fired after quiet has elapsed since the
// last character of a burst.
func (e *Engine) AddListener(quiet time.Duration, cb Callback) (ListenerID, error) {
	if quiet <= 0 {
		return ListenerID{}, fmt.Errorf("%w: quiet period must be positive, got %s", hotkey.ErrInvalidOption, quiet)
	}
	if cb == nil {
		return ListenerID{}, fmt.Errorf("%w: nil debounce callback", hotkey.ErrInvalidOption)
	}

	l := &listener{
		id:    ListenerID(uuid.New()),
		quiet: quiet,
		cb:    cb,
	}

	e.mu.Lock()
	e.listeners = append(e.listeners, l)
	e.mu.Unlock()

	return l.id, nil
}

// RemoveListener deletes a listener and cancels its scheduled check.
// Removing an unknown id returns false.
func (e *Engine) RemoveListener(id ListenerID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, l := range e.listeners {
		if l.id != id {
			continue
		}
		l.removed = true
		if l.timer != nil {
			l.timer.Stop()
			l.timer = nil
		}
		e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
		return true
	}
	return false
}

// Len returns the number of listeners.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// OnCharacter feeds a character event to every listener. Key-down events
// and events without a character are ignored.
func (e *Engine) OnCharacter(ev key.Event) {
	if ev.IsDown() || !ev.HasChar() {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	for _, l := range e.listeners {
		l.events = append(l.events, ev)
		l.text.WriteRune(rune(ev.Keychar))
		if !l.active {
			e.scheduleLocked(l, l.quiet)
			l.active = true
		}
		l.windowStart = now
	}
}

// scheduleLocked replaces the listener's pending check with one after d.
func (e *Engine) scheduleLocked(l *listener, d time.Duration) {
	if l.timer != nil {
		l.timer.Stop()
	}
	l.gen++
	gen := l.gen
	l.timer = e.clock.AfterFunc(d, func() {
		e.check(l, gen)
	})
}

// check fires the listener if its window has been quiet long enough and
// otherwise waits out the remainder.
func (e *Engine) check(l *listener, gen uint64) {
	e.mu.Lock()
	if l.removed || !l.active || l.gen != gen {
		e.mu.Unlock()
		return
	}

	elapsed := e.clock.Now().Sub(l.windowStart)
	if elapsed < l.quiet {
		e.scheduleLocked(l, l.quiet-elapsed)
		e.mu.Unlock()
		return
	}

	l.timer = nil
	text, events := l.take()
	cb := l.cb
	e.mu.Unlock()

	cb(text, events)
}

// Flush delivers every non-empty buffer immediately and returns how many
// callbacks ran.
func (e *Engine) Flush() int {
	e.mu.Lock()
	var out []delivery
	for _, l := range e.listeners {
		if !l.active {
			continue
		}
		text, events := l.take()
		out = append(out, delivery{cb: l.cb, text: text, events: events})
	}
	e.mu.Unlock()

	for _, d := range out {
		d.cb(d.text, d.events)
	}
	return len(out)
}
