// Package native captures system-wide keyboard events with a libuiohook
// based hook. It requires cgo and, on macOS, accessibility permission.
package native

import (
	"sync"

	gohook "github.com/robotn/gohook"

	"github.com/dshills/hotkeys/internal/hook"
	"github.com/dshills/hotkeys/internal/input/key"
)

// libuiohook modifier mask bits.
const (
	maskShiftL uint16 = 1 << 0
	maskCtrlL  uint16 = 1 << 1
	maskMetaL  uint16 = 1 << 2
	maskAltL   uint16 = 1 << 3
	maskShiftR uint16 = 1 << 4
	maskCtrlR  uint16 = 1 << 5
	maskMetaR  uint16 = 1 << 6
	maskAltR   uint16 = 1 << 7

	maskShift = maskShiftL | maskShiftR
	maskCtrl  = maskCtrlL | maskCtrlR
	maskAlt   = maskAltL | maskAltR
)

// charUndefined is the keychar libuiohook reports for non-character keys.
const charUndefined = 0xFFFF

// Source delivers events from the native hook.
type Source struct {
	mu      sync.Mutex
	events  chan key.Event
	done    chan struct{}
	wg      sync.WaitGroup
	onDrop  func()
	started bool
	stopped bool
}

// New creates a native source. onDrop, if non-nil, is called for each
// event discarded because the consumer fell behind; the hook thread is
// never blocked.
func New(buffer int, onDrop func()) *Source {
	return &Source{
		events: make(chan key.Event, buffer),
		done:   make(chan struct{}),
		onDrop: onDrop,
	}
}

// Convert maps a hook event to a key event. Typed events become press
// events and pressed events become key-down events; everything else is
// ignored.
func Convert(ev gohook.Event) (key.Event, bool) {
	var kind key.Kind
	switch ev.Kind {
	case gohook.KeyDown:
		kind = key.KindPress
	case gohook.KeyHold:
		kind = key.KindDown
	default:
		return key.Event{}, false
	}

	out := key.Event{
		Kind:      kind,
		Rawcode:   ev.Rawcode,
		Alt:       ev.Mask&maskAlt != 0,
		Ctrl:      ev.Mask&maskCtrl != 0,
		Shift:     ev.Mask&maskShift != 0,
		Timestamp: ev.When,
	}
	if ev.Keychar > 0 && ev.Keychar < charUndefined {
		out.Keychar = uint16(ev.Keychar)
	}
	return out, true
}

// Start installs the hook.
func (s *Source) Start() (<-chan key.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil, hook.ErrAlreadyStarted
	}
	s.started = true

	raw := gohook.Start()
	s.wg.Add(1)
	go s.forward(raw)

	return s.events, nil
}

func (s *Source) forward(raw chan gohook.Event) {
	defer s.wg.Done()
	defer close(s.events)

	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-raw:
			if !ok {
				return
			}
			ke, ok := Convert(ev)
			if !ok {
				continue
			}
			select {
			case s.events <- ke:
			default:
				if s.onDrop != nil {
					s.onDrop()
				}
			}
		}
	}
}

// Stop removes the hook and closes the event channel.
func (s *Source) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return hook.ErrNotStarted
	}
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.done)
	s.mu.Unlock()

	gohook.End()
	s.wg.Wait()
	return nil
}

var _ hook.Source = (*Source)(nil)
