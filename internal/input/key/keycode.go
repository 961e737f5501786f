package key

import "strings"

// Physical key codes for keys without a printable character.
const (
	CodeBackspace uint16 = 8
	CodeTab       uint16 = 9
	CodeEnter     uint16 = 13
	CodeCapsLock  uint16 = 20
	CodeEscape    uint16 = 27
	CodeSpace     uint16 = 32
	CodePageUp    uint16 = 33
	CodePageDown  uint16 = 34
	CodeEnd       uint16 = 35
	CodeHome      uint16 = 36
	CodeLeft      uint16 = 37
	CodeUp        uint16 = 38
	CodeRight     uint16 = 39
	CodeDown      uint16 = 40
	CodePrint     uint16 = 44
	CodeInsert    uint16 = 45
	CodeDelete    uint16 = 46
	CodeCmd       uint16 = 91
	CodeF1        uint16 = 112
	CodeF12       uint16 = 123

	// Bare modifier keys. The named-key table uses the left-hand codes.
	CodeLeftShift  uint16 = 160
	CodeRightShift uint16 = 161
	CodeLeftCtrl   uint16 = 162
	CodeRightCtrl  uint16 = 163
	CodeLeftAlt    uint16 = 164
	CodeRightAlt   uint16 = 165
)

// namedKey is one row of the named-key table.
type namedKey struct {
	name string
	code uint16
}

// namedKeys is ordered so that reverse lookups are deterministic.
var namedKeys = []namedKey{
	{"enter", CodeEnter},
	{"space", CodeSpace},
	{"tab", CodeTab},
	{"esc", CodeEscape},
	{"backspace", CodeBackspace},
	{"capslock", CodeCapsLock},
	{"pgup", CodePageUp},
	{"pgdn", CodePageDown},
	{"end", CodeEnd},
	{"home", CodeHome},
	{"left", CodeLeft},
	{"up", CodeUp},
	{"right", CodeRight},
	{"down", CodeDown},
	{"prtsc", CodePrint},
	{"insert", CodeInsert},
	{"delete", CodeDelete},
	{"cmd", CodeCmd},
	{"f1", CodeF1},
	{"f2", CodeF1 + 1},
	{"f3", CodeF1 + 2},
	{"f4", CodeF1 + 3},
	{"f5", CodeF1 + 4},
	{"f6", CodeF1 + 5},
	{"f7", CodeF1 + 6},
	{"f8", CodeF1 + 7},
	{"f9", CodeF1 + 8},
	{"f10", CodeF1 + 9},
	{"f11", CodeF1 + 10},
	{"f12", CodeF12},
	{"alt", CodeLeftAlt},
	{"ctrl", CodeLeftCtrl},
	{"shift", CodeLeftShift},
}

// keyNameMap maps key names (lowercase) to physical codes.
var keyNameMap = func() map[string]uint16 {
	m := make(map[string]uint16, len(namedKeys))
	for _, nk := range namedKeys {
		m[nk.name] = nk.code
	}
	return m
}()

// CodeFromName returns the physical code for a named key (case-insensitive).
func CodeFromName(name string) (uint16, bool) {
	code, ok := keyNameMap[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// NameFromCode returns the named-key table entry for a physical code.
func NameFromCode(code uint16) (string, bool) {
	for _, nk := range namedKeys {
		if nk.code == code {
			return nk.name, true
		}
	}
	return "", false
}

// KeyNames returns every name in the named-key table in table order.
func KeyNames() []string {
	names := make([]string, len(namedKeys))
	for i, nk := range namedKeys {
		names[i] = nk.name
	}
	return names
}

// IsBareModifier reports whether code is the physical code of alt, ctrl or
// shift themselves (either hand).
func IsBareModifier(code uint16) bool {
	return ModifierForCode(code) != ModNone
}

// ModifierForCode returns the modifier a bare modifier key produces, or
// ModNone for any other code.
func ModifierForCode(code uint16) Modifier {
	switch code {
	case CodeLeftShift, CodeRightShift:
		return ModShift
	case CodeLeftCtrl, CodeRightCtrl:
		return ModCtrl
	case CodeLeftAlt, CodeRightAlt:
		return ModAlt
	default:
		return ModNone
	}
}

// LetterCode returns the physical code of an ASCII letter, which is the code
// of its uppercase form. ok is false for anything that is not a letter.
func LetterCode(r rune) (code uint16, ok bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return uint16(r - 'a' + 'A'), true
	case r >= 'A' && r <= 'Z':
		return uint16(r), true
	default:
		return 0, false
	}
}

// PrintableFromCode returns the lowercase character for a letter or digit
// physical code. Used when an event carries no character code.
func PrintableFromCode(code uint16) (rune, bool) {
	switch {
	case code >= 'A' && code <= 'Z':
		return rune(code - 'A' + 'a'), true
	case code >= '0' && code <= '9':
		return rune(code), true
	default:
		return 0, false
	}
}
