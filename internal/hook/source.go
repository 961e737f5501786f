// Package hook provides keyboard event sources that feed an input
// handler.
//
// A Source is started once and delivers key events on a channel until it
// is stopped, at which point the channel is closed. Sources emit a
// physical key-down event followed by a character press event for each
// keystroke, matching what native keyboard hooks report.
package hook

import (
	"errors"
	"sync"

	"github.com/dshills/hotkeys/internal/input/key"
)

// Source errors.
var (
	ErrAlreadyStarted = errors.New("source already started")
	ErrNotStarted     = errors.New("source not started")
)

// Source is a keyboard event producer.
type Source interface {
	// Start begins capturing keyboard events.
	// Returns a channel that receives events until Stop is called.
	Start() (<-chan key.Event, error)

	// Stop terminates capture and closes the event channel.
	Stop() error
}

// ChanSource is a Source fed by Send. Hosts that receive key events from
// their own toolkit use it to drive a handler.
type ChanSource struct {
	mu      sync.Mutex
	events  chan key.Event
	started bool
	stopped bool
}

// NewChanSource creates a source with the given channel buffer.
func NewChanSource(buffer int) *ChanSource {
	return &ChanSource{
		events: make(chan key.Event, buffer),
	}
}

// Start returns the event channel.
func (s *ChanSource) Start() (<-chan key.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil, ErrAlreadyStarted
	}
	s.started = true
	return s.events, nil
}

// Send delivers an event without blocking. It returns false if the
// source is stopped or the buffer is full.
func (s *ChanSource) Send(ev key.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

// Stop closes the event channel.
func (s *ChanSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if s.stopped {
		return nil
	}
	s.stopped = true
	close(s.events)
	return nil
}
