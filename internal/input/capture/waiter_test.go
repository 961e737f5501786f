package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dshills/hotkeys/internal/input/key"
)

func TestDownEventDoesNotResolvePressRequest(t *testing.T) {
	w := NewWaiter()
	p := w.Next(false)

	if w.Offer(key.NewDownEvent(65, key.ModCtrl)) {
		t.Fatal("down event resolved a press-only request")
	}
	if _, ok := p.Result(); ok {
		t.Fatal("request resolved early")
	}
	select {
	case <-p.Done():
		t.Fatal("Done closed early")
	default:
	}

	if !w.Offer(key.Event{Kind: key.KindPress, Ctrl: true, Rawcode: 65}) {
		t.Fatal("press event did not resolve the request")
	}
	got, err := p.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait error = %v", err)
	}
	if got != "ctrl + a" {
		t.Errorf("Wait = %q, want %q", got, "ctrl + a")
	}
	if w.IsPending() {
		t.Error("slot not cleared")
	}
}

func TestKeyDownRequest(t *testing.T) {
	w := NewWaiter()
	p := w.Next(true)
	if !p.IncludesKeyDown() {
		t.Error("IncludesKeyDown = false")
	}

	if !w.Offer(key.NewDownEvent(key.CodeF1, key.ModShift)) {
		t.Fatal("down event did not resolve a key-down request")
	}
	if got, ok := p.Result(); !ok || got != "shift + f1" {
		t.Errorf("Result = %q, %t", got, ok)
	}
}

func TestNextSharesPendingRequest(t *testing.T) {
	w := NewWaiter()
	first := w.Next(false)
	second := w.Next(true)

	if first != second {
		t.Fatal("Next created a second request while one was pending")
	}
	if second.IncludesKeyDown() {
		t.Error("later includeKeyDown overrode the pending request")
	}

	var wg sync.WaitGroup
	results := make([]string, 2)
	for i, p := range []*Pending{first, second} {
		wg.Add(1)
		go func(i int, p *Pending) {
			defer wg.Done()
			results[i], _ = p.Wait(context.Background())
		}(i, p)
	}

	w.Offer(key.NewPressEvent('x', key.ModNone))
	wg.Wait()

	if results[0] != "x" || results[1] != "x" {
		t.Errorf("results = %q", results)
	}

	third := w.Next(false)
	if third == first {
		t.Error("resolved request was reused")
	}
}

func TestOfferWithoutRequest(t *testing.T) {
	w := NewWaiter()
	if w.Offer(key.NewPressEvent('a', key.ModNone)) {
		t.Error("Offer with no request = true")
	}
}

func TestCancel(t *testing.T) {
	w := NewWaiter()
	if w.Cancel() {
		t.Error("Cancel with no request = true")
	}

	p := w.Next(false)
	if !w.Cancel() {
		t.Fatal("Cancel = false")
	}
	if _, err := p.Wait(context.Background()); !errors.Is(err, ErrCancelled) {
		t.Errorf("Wait error = %v, want ErrCancelled", err)
	}
	if _, ok := p.Result(); ok {
		t.Error("cancelled request reports a result")
	}
	if w.Offer(key.NewPressEvent('a', key.ModNone)) {
		t.Error("Offer after Cancel resolved something")
	}
}

func TestWaitContext(t *testing.T) {
	w := NewWaiter()
	p := w.Next(false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := p.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait error = %v, want DeadlineExceeded", err)
	}
	if !w.IsPending() {
		t.Error("context expiry should not clear the request")
	}
}
