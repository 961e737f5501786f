package hotkey

import (
	"fmt"

	"github.com/dshills/hotkeys/internal/input/key"
)

// MatchOn selects which event field a predicate compares.
type MatchOn uint8

const (
	// MatchRawcode compares the physical key code.
	MatchRawcode MatchOn = iota + 1

	// MatchKeychar compares the produced character code.
	MatchKeychar
)

// String returns "rawcode" or "keychar".
func (m MatchOn) String() string {
	switch m {
	case MatchRawcode:
		return "rawcode"
	case MatchKeychar:
		return "keychar"
	default:
		return fmt.Sprintf("MatchOn(%d)", m)
	}
}

// Predicate is a single structured match rule derived from one token.
type Predicate struct {
	// On selects the compared field; Code is the expected value.
	On   MatchOn
	Code uint16

	// Required modifiers.
	Alt   bool
	Ctrl  bool
	Shift bool

	MatchAllModifiers bool
	AcceptOnKeyDown   bool

	// Source is the trimmed token the predicate was parsed from.
	Source string
}

// Modifiers returns the predicate's required modifiers.
func (p Predicate) Modifiers() key.Modifier {
	return key.ModifierFromFlags(p.Alt, p.Ctrl, p.Shift)
}

// Event synthesizes the event this predicate describes. Removal matches
// registered predicates through it.
func (p Predicate) Event() key.Event {
	ev := key.Event{Alt: p.Alt, Ctrl: p.Ctrl, Shift: p.Shift}
	switch p.On {
	case MatchRawcode:
		ev.Kind = key.KindDown
		ev.Rawcode = p.Code
	case MatchKeychar:
		ev.Kind = key.KindPress
		ev.Keychar = p.Code
	}
	return ev
}

// String returns a debugging representation.
func (p Predicate) String() string {
	return fmt.Sprintf("%s=%d mods=[%s] all=%t down=%t src=%q",
		p.On, p.Code, p.Modifiers(), p.MatchAllModifiers, p.AcceptOnKeyDown, p.Source)
}
