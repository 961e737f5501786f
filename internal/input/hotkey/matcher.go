package hotkey

import "github.com/dshills/hotkeys/internal/input/key"

// Matches reports whether the event satisfies the predicate.
//
// The main key is compared on the field the predicate names. Modifiers are
// compared exactly when MatchAllModifiers is set; otherwise each modifier
// the predicate requires must be held and extra ones are ignored.
func (p Predicate) Matches(ev key.Event) bool {
	switch p.On {
	case MatchRawcode:
		if ev.Rawcode != p.Code {
			return false
		}
	case MatchKeychar:
		if ev.Keychar != p.Code {
			return false
		}
	default:
		return false
	}

	if p.MatchAllModifiers {
		return p.Alt == ev.Alt && p.Ctrl == ev.Ctrl && p.Shift == ev.Shift
	}
	if p.Alt && !ev.Alt {
		return false
	}
	if p.Ctrl && !ev.Ctrl {
		return false
	}
	if p.Shift && !ev.Shift {
		return false
	}
	return true
}

// Accepts reports whether the predicate considers an event of this kind at all.
func (p Predicate) Accepts(isKeyDown bool) bool {
	return !isKeyDown || p.AcceptOnKeyDown
}

// MatchesAny reports whether any predicate matches the event.
func MatchesAny(preds []Predicate, ev key.Event) bool {
	for _, p := range preds {
		if p.Matches(ev) {
			return true
		}
	}
	return false
}
