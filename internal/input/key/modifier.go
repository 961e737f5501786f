package key

import "strings"

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModShift indicates the Shift key.
	ModShift
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasAlt returns true if Alt is pressed.
func (m Modifier) HasAlt() bool {
	return m.Has(ModAlt)
}

// HasCtrl returns true if Control is pressed.
func (m Modifier) HasCtrl() bool {
	return m.Has(ModCtrl)
}

// HasShift returns true if Shift is pressed.
func (m Modifier) HasShift() bool {
	return m.Has(ModShift)
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// Names returns the lowercase modifier names in canonical order:
// alt, then ctrl, then shift.
func (m Modifier) Names() []string {
	var parts []string
	if m.HasAlt() {
		parts = append(parts, "alt")
	}
	if m.HasCtrl() {
		parts = append(parts, "ctrl")
	}
	if m.HasShift() {
		parts = append(parts, "shift")
	}
	return parts
}

// String returns a representation like "alt+ctrl".
func (m Modifier) String() string {
	return strings.Join(m.Names(), "+")
}

// ModifierFromName returns the Modifier for alt, ctrl or shift
// (case-insensitive). Any other name yields ModNone.
func ModifierFromName(name string) Modifier {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "alt":
		return ModAlt
	case "ctrl":
		return ModCtrl
	case "shift":
		return ModShift
	default:
		return ModNone
	}
}

// ModifierFromFlags builds a Modifier from individual flags.
func ModifierFromFlags(alt, ctrl, shift bool) Modifier {
	var m Modifier
	if alt {
		m = m.With(ModAlt)
	}
	if ctrl {
		m = m.With(ModCtrl)
	}
	if shift {
		m = m.With(ModShift)
	}
	return m
}
