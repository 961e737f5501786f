package input

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/dshills/hotkeys/internal/input/capture"
	"github.com/dshills/hotkeys/internal/input/debounce"
	"github.com/dshills/hotkeys/internal/input/hotkey"
	"github.com/dshills/hotkeys/internal/input/key"
	"github.com/dshills/hotkeys/internal/input/keymap"
)

// ErrHandlerClosed is returned by operations on a closed handler.
var ErrHandlerClosed = errors.New("input handler closed")

// Config configures the input handler.
type Config struct {
	// EnableMetrics enables metrics collection (default: true).
	EnableMetrics bool

	// Clock drives debounce timers. Nil uses the wall clock.
	Clock debounce.Clock
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics: true,
	}
}

// Handler owns the hotkey registry, the next-hotkey waiter and the
// debounce engine, and routes key events to them.
type Handler struct {
	config Config

	registry  *keymap.Registry
	waiter    *capture.Waiter
	debouncer *debounce.Engine
	hooks     *HookManager
	metrics   *Metrics

	closed atomic.Bool
}

// Hook allows interception of key events.
type Hook interface {
	// PreKeyEvent is called before the event is dispatched.
	// Return true to consume the event (stop further processing).
	PreKeyEvent(event *key.Event) bool

	// PostKeyEvent is called after dispatch with the number of hotkey
	// callbacks that fired.
	PostKeyEvent(event *key.Event, fired int)
}

// NewHandler creates a new input handler.
func NewHandler(config Config) *Handler {
	var opts []debounce.Option
	if config.Clock != nil {
		opts = append(opts, debounce.WithClock(config.Clock))
	}

	h := &Handler{
		config:    config,
		registry:  keymap.NewRegistry(),
		waiter:    capture.NewWaiter(),
		debouncer: debounce.NewEngine(opts...),
		hooks:     NewHookManager(),
		metrics:   NewMetrics(),
	}
	h.metrics.SetEnabled(config.EnableMetrics)
	return h
}

// HandleKeyEvent processes a key event: it resolves a pending capture,
// fires matching hotkeys and feeds character presses to the debouncer.
func (h *Handler) HandleKeyEvent(event key.Event) {
	if h.closed.Load() {
		return
	}

	timer := h.metrics.StartKeyEventTimer()
	defer timer.Stop()

	if h.hooks.RunPreKeyEvent(&event) {
		h.metrics.RecordHookConsumption()
		return
	}

	if h.waiter.Offer(event) {
		h.metrics.RecordCapture()
	}

	fired := h.registry.Dispatch(event, event.IsDown())
	h.metrics.RecordHotkeys(fired)

	if !event.IsDown() && event.HasChar() {
		h.debouncer.OnCharacter(event)
	}

	h.hooks.RunPostKeyEvent(&event, fired)
}

// Run feeds events into HandleKeyEvent until the channel closes or ctx is
// done. A closed channel is a normal end of stream.
func (h *Handler) Run(ctx context.Context, events <-chan key.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			h.HandleKeyEvent(ev)
		}
	}
}

// Register parses spec and registers cb for it.
func (h *Handler) Register(spec string, opts hotkey.Options, cb keymap.Callback) ([]keymap.EntryID, error) {
	if h.closed.Load() {
		return nil, ErrHandlerClosed
	}
	return h.registry.RegisterSpec(spec, opts, cb)
}

// RegisterKeymap registers every binding of km atomically.
func (h *Handler) RegisterKeymap(km *keymap.Keymap, callbackFor keymap.CallbackFactory) ([]keymap.EntryID, error) {
	if h.closed.Load() {
		return nil, ErrHandlerClosed
	}
	return km.Register(h.registry, callbackFor)
}

// Remove parses spec and removes the matching registered predicates,
// returning how many were removed.
func (h *Handler) Remove(spec string, opts hotkey.Options) (int, error) {
	return h.registry.RemoveSpec(spec, opts)
}

// RemoveEntries removes entries by ID and returns how many existed.
func (h *Handler) RemoveEntries(ids []keymap.EntryID) int {
	n := 0
	for _, id := range ids {
		if h.registry.RemoveEntry(id) {
			n++
		}
	}
	return n
}

// AddDebounceListener registers a debounce listener with the given quiet
// period.
func (h *Handler) AddDebounceListener(quiet time.Duration, cb debounce.Callback) (debounce.ListenerID, error) {
	if h.closed.Load() {
		return debounce.ListenerID{}, ErrHandlerClosed
	}
	if cb == nil {
		return h.debouncer.AddListener(quiet, nil)
	}
	return h.debouncer.AddListener(quiet, func(text string, events []key.Event) {
		h.metrics.RecordDebounceFlush()
		cb(text, events)
	})
}

// RemoveDebounceListener removes a debounce listener. Unknown ids return
// false.
func (h *Handler) RemoveDebounceListener(id debounce.ListenerID) bool {
	return h.debouncer.RemoveListener(id)
}

// NextHotkey returns a request that resolves with the next qualifying
// event formatted as a hotkey specification.
func (h *Handler) NextHotkey(includeKeyDown bool) *capture.Pending {
	return h.waiter.Next(includeKeyDown)
}

// CancelNextHotkey abandons the pending next-hotkey request.
func (h *Handler) CancelNextHotkey() bool {
	return h.waiter.Cancel()
}

// Entries returns a snapshot of the registered hotkeys.
func (h *Handler) Entries() []keymap.EntryInfo {
	return h.registry.Entries()
}

// Hooks returns the hook manager.
func (h *Handler) Hooks() *HookManager {
	return h.hooks
}

// Metrics returns the handler's metrics.
func (h *Handler) Metrics() *Metrics {
	return h.metrics
}

// Close stops the handler. Buffered debounce text is delivered and a
// pending capture is cancelled.
func (h *Handler) Close() {
	if h.closed.Swap(true) {
		return
	}
	h.debouncer.Flush()
	h.waiter.Cancel()
}

// IsClosed returns true if the handler has been closed.
func (h *Handler) IsClosed() bool {
	return h.closed.Load()
}
