package key

import "testing"

func TestCodeFromName(t *testing.T) {
	tests := []struct {
		name string
		want uint16
	}{
		{"enter", 13},
		{"Enter", 13},
		{"space", 32},
		{"esc", 27},
		{"pgdn", 34},
		{"F1", 112},
		{"f12", 123},
		{"cmd", 91},
		{"shift", CodeLeftShift},
		{"ctrl", CodeLeftCtrl},
		{"alt", CodeLeftAlt},
	}

	for _, tt := range tests {
		got, ok := CodeFromName(tt.name)
		if !ok {
			t.Errorf("CodeFromName(%q) not found", tt.name)
			continue
		}
		if got != tt.want {
			t.Errorf("CodeFromName(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}

	for _, name := range []string{"escape", "return", "a", "f13", ""} {
		if _, ok := CodeFromName(name); ok {
			t.Errorf("CodeFromName(%q) should not be found", name)
		}
	}
}

func TestNameFromCode(t *testing.T) {
	for _, name := range KeyNames() {
		code, _ := CodeFromName(name)
		got, ok := NameFromCode(code)
		if !ok || got != name {
			t.Errorf("NameFromCode(%d) = %q, %v; want %q", code, got, ok, name)
		}
	}

	if _, ok := NameFromCode(65); ok {
		t.Error("NameFromCode(65) should not be found")
	}
}

func TestIsBareModifier(t *testing.T) {
	for code := uint16(160); code <= 165; code++ {
		if !IsBareModifier(code) {
			t.Errorf("IsBareModifier(%d) = false", code)
		}
	}
	for _, code := range []uint16{0, 13, 65, 91, 166} {
		if IsBareModifier(code) {
			t.Errorf("IsBareModifier(%d) = true", code)
		}
	}
	if ModifierForCode(CodeRightCtrl) != ModCtrl {
		t.Error("right ctrl should map to ModCtrl")
	}
}

func TestLetterCode(t *testing.T) {
	tests := []struct {
		r      rune
		want   uint16
		wantOK bool
	}{
		{'a', 65, true},
		{'A', 65, true},
		{'z', 90, true},
		{'1', 0, false},
		{'+', 0, false},
		{'é', 0, false},
	}

	for _, tt := range tests {
		got, ok := LetterCode(tt.r)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("LetterCode(%q) = %d, %v; want %d, %v", tt.r, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPrintableFromCode(t *testing.T) {
	if r, ok := PrintableFromCode(65); !ok || r != 'a' {
		t.Errorf("PrintableFromCode(65) = %q, %v", r, ok)
	}
	if r, ok := PrintableFromCode('7'); !ok || r != '7' {
		t.Errorf("PrintableFromCode('7') = %q, %v", r, ok)
	}
	if _, ok := PrintableFromCode(CodeEnter); ok {
		t.Error("PrintableFromCode(enter) should fail")
	}
}
