package hotkey

import (
	"errors"
	"testing"

	"github.com/dshills/hotkeys/internal/input/key"
)

func TestParseSingleLetterIgnoresCase(t *testing.T) {
	for _, spec := range []string{"a", "A", " a ", "ctrl + a", "ctrl + A"} {
		preds, err := Parse(spec, DefaultOptions())
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", spec, err)
		}
		if len(preds) != 1 {
			t.Fatalf("Parse(%q) len = %d, want 1", spec, len(preds))
		}
		p := preds[0]
		if p.On != MatchRawcode || p.Code != 65 {
			t.Errorf("Parse(%q) = %s=%d, want rawcode=65", spec, p.On, p.Code)
		}
	}
}

func TestParseEveryLetterWithoutCapitalization(t *testing.T) {
	for r := 'a'; r <= 'z'; r++ {
		for _, c := range []rune{r, r - 'a' + 'A'} {
			preds, err := Parse(string(c), DefaultOptions())
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", c, err)
			}
			want := uint16(r - 'a' + 'A')
			if preds[0].On != MatchRawcode || preds[0].Code != want {
				t.Errorf("Parse(%q) = %s=%d, want rawcode=%d", c, preds[0].On, preds[0].Code, want)
			}
		}
	}
}

func TestParseCapitalization(t *testing.T) {
	opts := Options{Capitalization: true}
	tests := []struct {
		spec string
		want uint16
	}{
		{"a", 'a'},
		{"A", 'A'},
		{"shift + B", 'B'},
	}

	for _, tt := range tests {
		preds, err := Parse(tt.spec, opts)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.spec, err)
		}
		if preds[0].On != MatchKeychar || preds[0].Code != tt.want {
			t.Errorf("Parse(%q) = %s=%d, want keychar=%d", tt.spec, preds[0].On, preds[0].Code, tt.want)
		}
	}
}

func TestParseNonLetterCharacter(t *testing.T) {
	tests := []struct {
		spec string
		want uint16
	}{
		{"1", '1'},
		{"@", '@'},
		{"ctrl + /", '/'},
		{"é", 'é'},
	}

	for _, tt := range tests {
		preds, err := Parse(tt.spec, DefaultOptions())
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.spec, err)
		}
		if preds[0].On != MatchKeychar || preds[0].Code != tt.want {
			t.Errorf("Parse(%q) = %s=%d, want keychar=%d", tt.spec, preds[0].On, preds[0].Code, tt.want)
		}
	}
}

func TestParseNamedKeys(t *testing.T) {
	tests := []struct {
		spec string
		want uint16
	}{
		{"enter", key.CodeEnter},
		{"Enter", key.CodeEnter},
		{"space", key.CodeSpace},
		{"esc", key.CodeEscape},
		{"pgup", key.CodePageUp},
		{"alt + F4", key.CodeF1 + 3},
		{"f12", key.CodeF12},
		{"cmd", key.CodeCmd},
		{"shift", key.CodeLeftShift},
		{"ctrl + alt", key.CodeLeftAlt},
	}

	for _, tt := range tests {
		preds, err := Parse(tt.spec, DefaultOptions())
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.spec, err)
		}
		if preds[0].On != MatchRawcode || preds[0].Code != tt.want {
			t.Errorf("Parse(%q) = %s=%d, want rawcode=%d", tt.spec, preds[0].On, preds[0].Code, tt.want)
		}
	}
}

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		spec string
		want key.Modifier
	}{
		{"a", key.ModNone},
		{"ctrl + a", key.ModCtrl},
		{"ctrl+shift+a", key.ModCtrl | key.ModShift},
		{"shift + alt + ctrl + a", key.ModAlt | key.ModCtrl | key.ModShift},
		{"ctrl + ctrl + a", key.ModCtrl},
		{"meta + a", key.ModNone},
		{"hyper + ctrl + a", key.ModCtrl},
	}

	for _, tt := range tests {
		preds, err := Parse(tt.spec, DefaultOptions())
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.spec, err)
		}
		if got := preds[0].Modifiers(); got != tt.want {
			t.Errorf("Parse(%q) modifiers = %v, want %v", tt.spec, got, tt.want)
		}
	}
}

func TestParseModifierOrderIrrelevant(t *testing.T) {
	want := MustParse("ctrl + a", DefaultOptions())[0]
	for _, spec := range []string{"a + ctrl", " a+ctrl "} {
		got := MustParse(spec, DefaultOptions())[0]
		got.Source = want.Source
		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", spec, got, want)
		}
	}

	c := MustParse("shift + ctrl + a", DefaultOptions())[0]
	d := MustParse("ctrl + a + shift", DefaultOptions())[0]
	c.Source, d.Source = "", ""
	if c != d {
		t.Errorf("modifier order changed predicate: %v vs %v", c, d)
	}

	// Only modifiers: the last one stays the main key.
	e := MustParse("ctrl + shift", DefaultOptions())[0]
	if e.Code != key.CodeLeftShift || !e.Ctrl || e.Shift {
		t.Errorf("Parse(\"ctrl + shift\") = %v", e)
	}

	// Two candidate main keys: nothing is moved.
	f := MustParse("a + b + ctrl", DefaultOptions())[0]
	if f.Code != key.CodeLeftCtrl {
		t.Errorf("Parse(\"a + b + ctrl\") = %v", f)
	}
}

func TestParseMultipleTokens(t *testing.T) {
	preds, err := Parse("ctrl + a, a ,shift + enter", DefaultOptions())
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	wantSources := []string{"ctrl + a", "a", "shift + enter"}
	if len(preds) != len(wantSources) {
		t.Fatalf("len = %d, want %d", len(preds), len(wantSources))
	}
	for i, want := range wantSources {
		if preds[i].Source != want {
			t.Errorf("preds[%d].Source = %q, want %q", i, preds[i].Source, want)
		}
	}
	if got := JoinSources(preds); got != "ctrl + a,a,shift + enter" {
		t.Errorf("JoinSources = %q", got)
	}
}

func TestParseOptionsCopied(t *testing.T) {
	preds := MustParse("a, b", Options{MatchAllModifiers: true, AcceptOnKeyDown: true})
	for _, p := range preds {
		if !p.MatchAllModifiers || !p.AcceptOnKeyDown {
			t.Errorf("options not copied to %v", p)
		}
	}
}

func TestParseCapitalizationWithKeyDown(t *testing.T) {
	opts := Options{Capitalization: true, AcceptOnKeyDown: true}
	tests := []struct {
		spec string
		on   MatchOn
		want uint16
	}{
		{"ctrl + enter", MatchRawcode, key.CodeEnter},
		{"A", MatchKeychar, 'A'},
	}

	for _, tt := range tests {
		preds, err := Parse(tt.spec, opts)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.spec, err)
		}
		p := preds[0]
		if p.On != tt.on || p.Code != tt.want {
			t.Errorf("Parse(%q) = %s=%d, want %s=%d", tt.spec, p.On, p.Code, tt.on, tt.want)
		}
		if !p.AcceptOnKeyDown {
			t.Errorf("Parse(%q) AcceptOnKeyDown = false, want true", tt.spec)
		}
	}
}

func TestParsePlus(t *testing.T) {
	tests := []struct {
		spec string
		opts Options
	}{
		{"plus", DefaultOptions()},
		{"ctrl + plus", DefaultOptions()},
		{"ctrl - plus", Options{SplitKey: "-"}},
		{"ctrl - +", Options{SplitKey: "-"}},
	}

	for _, tt := range tests {
		preds, err := Parse(tt.spec, tt.opts)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.spec, err)
		}
		if preds[0].On != MatchKeychar || preds[0].Code != '+' {
			t.Errorf("Parse(%q) = %s=%d, want keychar '+'", tt.spec, preds[0].On, preds[0].Code)
		}
	}

	// With the default split key a literal "+" main key is empty.
	if _, err := Parse("ctrl + +", DefaultOptions()); !errors.Is(err, ErrInvalidSpecification) {
		t.Errorf("Parse(\"ctrl + +\") error = %v, want ErrInvalidSpecification", err)
	}
}

func TestParseCustomSplitKey(t *testing.T) {
	preds, err := Parse("ctrl-shift-x", Options{SplitKey: "-"})
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if preds[0].Modifiers() != key.ModCtrl|key.ModShift || preds[0].Code != 'X' {
		t.Errorf("unexpected predicate %v", preds[0])
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		spec    string
		wantKey string
	}{
		{"ctrl + foo", "foo"},
		{"a, escape", "escape"},
		{"", ""},
		{"a,", ""},
		{"ctrl +", ""},
		{"f13", "f13"},
	}

	for _, tt := range tests {
		preds, err := Parse(tt.spec, DefaultOptions())
		if err == nil {
			t.Errorf("Parse(%q) should fail", tt.spec)
			continue
		}
		if preds != nil {
			t.Errorf("Parse(%q) returned partial predicates %v", tt.spec, preds)
		}
		if !errors.Is(err, ErrInvalidSpecification) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidSpecification", tt.spec, err)
		}
		var ike *InvalidKeyError
		if !errors.As(err, &ike) {
			t.Fatalf("Parse(%q) error %T is not *InvalidKeyError", tt.spec, err)
		}
		if ike.Key != tt.wantKey {
			t.Errorf("Parse(%q) offending key = %q, want %q", tt.spec, ike.Key, tt.wantKey)
		}
	}
}

func TestParseInvalidOptions(t *testing.T) {
	tests := []Options{
		{SplitKey: ","},
		{SplitKey: "  "},
	}

	for _, opts := range tests {
		if _, err := Parse("a", opts); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("Parse with %+v error = %v, want ErrInvalidOption", opts, err)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on invalid spec")
		}
	}()
	MustParse("nope", DefaultOptions())
}
