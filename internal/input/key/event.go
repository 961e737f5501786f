package key

import (
	"fmt"
	"time"
)

// Kind distinguishes the two keyboard event flavours a hook delivers.
type Kind uint8

const (
	// KindPress is a character-producing event. Keychar is populated.
	KindPress Kind = iota

	// KindDown is a physical key-down event. Rawcode is populated.
	KindDown
)

// String returns "press" or "down".
func (k Kind) String() string {
	switch k {
	case KindPress:
		return "press"
	case KindDown:
		return "down"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Event represents a single keystroke reported by an input hook.
//
// Keychar and Rawcode use zero for "not populated". A press event normally
// carries Keychar and a down event Rawcode, but hooks may fill both.
type Event struct {
	// Kind is the event flavour.
	Kind Kind

	// Keychar is the UTF-16 character code produced by the keystroke.
	// It is capitalization-sensitive ('a' != 'A').
	Keychar uint16

	// Rawcode is the physical key code. It is capitalization-insensitive.
	Rawcode uint16

	// Modifier flags active when the key was pressed.
	Alt   bool
	Ctrl  bool
	Shift bool

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewPressEvent creates a press event for a character with the current timestamp.
func NewPressEvent(ch rune, mods Modifier) Event {
	return Event{
		Kind:      KindPress,
		Keychar:   uint16(ch),
		Alt:       mods.HasAlt(),
		Ctrl:      mods.HasCtrl(),
		Shift:     mods.HasShift(),
		Timestamp: time.Now(),
	}
}

// NewDownEvent creates a key-down event for a physical code with the current timestamp.
func NewDownEvent(rawcode uint16, mods Modifier) Event {
	return Event{
		Kind:      KindDown,
		Rawcode:   rawcode,
		Alt:       mods.HasAlt(),
		Ctrl:      mods.HasCtrl(),
		Shift:     mods.HasShift(),
		Timestamp: time.Now(),
	}
}

// Modifiers returns the event's modifier flags as a Modifier set.
func (e Event) Modifiers() Modifier {
	return ModifierFromFlags(e.Alt, e.Ctrl, e.Shift)
}

// IsDown returns true for key-down events.
func (e Event) IsDown() bool {
	return e.Kind == KindDown
}

// HasChar returns true if the event carries a character code.
func (e Event) HasChar() bool {
	return e.Keychar != 0
}

// Char returns the character for Keychar, or "" if none is populated.
func (e Event) Char() string {
	if !e.HasChar() {
		return ""
	}
	return string(rune(e.Keychar))
}

// WithModifier returns a copy with the specified modifier added.
func (e Event) WithModifier(mod Modifier) Event {
	clone := e
	m := e.Modifiers().With(mod)
	clone.Alt, clone.Ctrl, clone.Shift = m.HasAlt(), m.HasCtrl(), m.HasShift()
	return clone
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Kind: %s, Keychar: %q, Rawcode: %d, Modifiers: %s}",
		e.Kind, rune(e.Keychar), e.Rawcode, e.Modifiers())
}
