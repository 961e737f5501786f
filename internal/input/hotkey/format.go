package hotkey

import (
	"strings"

	"github.com/dshills/hotkeys/internal/input/key"
)

// FormatSeparator joins the tokens Format produces.
const FormatSeparator = " + "

// Format converts an event into a canonical specification string such as
// "ctrl + shift + a". Modifiers always appear in the order alt, ctrl, shift.
func Format(ev key.Event) string {
	mods := ev.Modifiers()
	parts := mods.Names()

	if main, ok := mainKeyName(ev, mods); ok {
		parts = append(parts, main)
	}
	return strings.Join(parts, FormatSeparator)
}

// mainKeyName returns the main-key token for an event, if it has one.
func mainKeyName(ev key.Event, mods key.Modifier) (string, bool) {
	// Bare modifiers are resolved before the named-key table, and either
	// hand maps to its modifier name. A modifier whose flag is already
	// listed is not repeated, so {Alt, rawcode 164} is "alt", not
	// "alt + alt", and right alt without its flag is "alt". This keeps
	// Format output parseable back to the same predicate (see DESIGN D2).
	if m := key.ModifierForCode(ev.Rawcode); m != key.ModNone {
		if mods.Has(m) {
			return "", false
		}
		return m.String(), true
	}

	if name, ok := key.NameFromCode(ev.Rawcode); ok {
		return name, true
	}

	if ev.Keychar == '+' {
		return plusKeyword, true
	}

	if ev.HasChar() {
		return ev.Char(), true
	}

	if r, ok := key.PrintableFromCode(ev.Rawcode); ok {
		return string(r), true
	}
	return "", false
}
