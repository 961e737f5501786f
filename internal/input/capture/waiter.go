// Package capture resolves a pending request with the next qualifying
// keystroke, formatted as a hotkey specification.
package capture

import (
	"context"
	"errors"
	"sync"

	"github.com/dshills/hotkeys/internal/input/hotkey"
	"github.com/dshills/hotkeys/internal/input/key"
)

// ErrCancelled is returned to waiters of a request abandoned by Cancel.
var ErrCancelled = errors.New("hotkey capture cancelled")

// Pending is an outstanding request for the next hotkey.
type Pending struct {
	includeKeyDown bool

	once   sync.Once
	done   chan struct{}
	result string
	err    error
}

func newPending(includeKeyDown bool) *Pending {
	return &Pending{
		includeKeyDown: includeKeyDown,
		done:           make(chan struct{}),
	}
}

func (p *Pending) resolve(result string, err error) {
	p.once.Do(func() {
		p.result = result
		p.err = err
		close(p.done)
	})
}

// Done is closed once the request resolves or is cancelled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Result returns the captured hotkey. ok is false until the request has
// resolved successfully.
func (p *Pending) Result() (hotkey string, ok bool) {
	select {
	case <-p.done:
		return p.result, p.err == nil
	default:
		return "", false
	}
}

// Wait blocks until the request resolves or ctx is done.
func (p *Pending) Wait(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// IncludesKeyDown reports whether key-down events can resolve the request.
func (p *Pending) IncludesKeyDown() bool {
	return p.includeKeyDown
}

// Waiter holds at most one pending request.
type Waiter struct {
	mu      sync.Mutex
	pending *Pending
	format  func(key.Event) string
}

// NewWaiter creates a waiter that formats events with hotkey.Format.
func NewWaiter() *Waiter {
	return &Waiter{format: hotkey.Format}
}

// Next returns the outstanding request, or starts one when none is
// pending. While a request is outstanding every caller shares it, and
// includeKeyDown of later calls is ignored.
func (w *Waiter) Next(includeKeyDown bool) *Pending {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending == nil {
		w.pending = newPending(includeKeyDown)
	}
	return w.pending
}

// Offer resolves the pending request with ev if it qualifies and reports
// whether it did. Key-down events qualify only when the request asked
// for them.
func (w *Waiter) Offer(ev key.Event) bool {
	w.mu.Lock()
	p := w.pending
	if p == nil || (ev.IsDown() && !p.includeKeyDown) {
		w.mu.Unlock()
		return false
	}
	w.pending = nil
	w.mu.Unlock()

	p.resolve(w.format(ev), nil)
	return true
}

// Cancel abandons the pending request. Its waiters receive ErrCancelled.
func (w *Waiter) Cancel() bool {
	w.mu.Lock()
	p := w.pending
	w.pending = nil
	w.mu.Unlock()

	if p == nil {
		return false
	}
	p.resolve("", ErrCancelled)
	return true
}

// IsPending reports whether a request is outstanding.
func (w *Waiter) IsPending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending != nil
}
