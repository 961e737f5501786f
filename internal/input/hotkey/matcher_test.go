package hotkey

import (
	"testing"

	"github.com/dshills/hotkeys/internal/input/key"
)

func TestMatchesMainKey(t *testing.T) {
	raw := MustParse("a", DefaultOptions())[0]
	char := MustParse("a", Options{Capitalization: true})[0]

	tests := []struct {
		name string
		pred Predicate
		ev   key.Event
		want bool
	}{
		{"rawcode equal", raw, key.Event{Rawcode: 65}, true},
		{"rawcode differs", raw, key.Event{Rawcode: 66}, false},
		{"rawcode ignores keychar", raw, key.Event{Keychar: 'a'}, false},
		{"keychar equal", char, key.Event{Keychar: 'a'}, true},
		{"keychar case sensitive", char, key.Event{Keychar: 'A'}, false},
		{"keychar ignores rawcode", char, key.Event{Rawcode: 65}, false},
		{"zero predicate", Predicate{}, key.Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred.Matches(tt.ev); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesModifierSubset(t *testing.T) {
	loose := MustParse("ctrl + a", DefaultOptions())[0]
	strict := MustParse("ctrl + a", Options{MatchAllModifiers: true})[0]

	tests := []struct {
		name      string
		mods      key.Modifier
		wantLoose bool
		wantExact bool
	}{
		{"exact", key.ModCtrl, true, true},
		{"extra shift", key.ModCtrl | key.ModShift, true, false},
		{"extra alt", key.ModCtrl | key.ModAlt, true, false},
		{"missing ctrl", key.ModShift, false, false},
		{"none", key.ModNone, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := key.NewDownEvent(65, tt.mods)
			if got := loose.Matches(ev); got != tt.wantLoose {
				t.Errorf("loose Matches() = %v, want %v", got, tt.wantLoose)
			}
			if got := strict.Matches(ev); got != tt.wantExact {
				t.Errorf("strict Matches() = %v, want %v", got, tt.wantExact)
			}
		})
	}
}

func TestMatchesBareLetterWithUnexpectedModifiers(t *testing.T) {
	p := MustParse("a", DefaultOptions())[0]
	if !p.Matches(key.NewDownEvent(65, key.ModShift)) {
		t.Error("bare letter should match with shift held")
	}

	p.MatchAllModifiers = true
	if p.Matches(key.NewDownEvent(65, key.ModShift)) {
		t.Error("exact bare letter should not match with shift held")
	}
	if !p.Matches(key.NewDownEvent(65, key.ModNone)) {
		t.Error("exact bare letter should match without modifiers")
	}
}

func TestAccepts(t *testing.T) {
	p := Predicate{}
	if !p.Accepts(false) || p.Accepts(true) {
		t.Error("default predicate should accept only press events")
	}
	p.AcceptOnKeyDown = true
	if !p.Accepts(true) {
		t.Error("AcceptOnKeyDown predicate should accept down events")
	}
}

func TestMatchesAny(t *testing.T) {
	preds := MustParse("ctrl + a, b", DefaultOptions())
	if !MatchesAny(preds, key.Event{Rawcode: 66}) {
		t.Error("b should match")
	}
	if MatchesAny(preds, key.Event{Rawcode: 65}) {
		t.Error("a without ctrl should not match")
	}
	if MatchesAny(nil, key.Event{Rawcode: 65}) {
		t.Error("empty list should not match")
	}
}

func TestPredicateEventRoundTrip(t *testing.T) {
	for _, spec := range []string{"ctrl + a", "alt + shift + enter", "plus", "shift + @"} {
		p := MustParse(spec, Options{MatchAllModifiers: true})[0]
		if !p.Matches(p.Event()) {
			t.Errorf("predicate %q does not match its own event", spec)
		}
	}
}

func TestMatchesKeycharOnKeyDown(t *testing.T) {
	p := MustParse("A", Options{Capitalization: true, AcceptOnKeyDown: true})[0]
	down := key.Event{Kind: key.KindDown, Rawcode: 65, Keychar: 'A', Shift: true}

	if !p.Accepts(down.IsDown()) || !p.Matches(down) {
		t.Error("down event carrying keychar 'A' should satisfy the predicate")
	}
	down.Keychar = 0
	if p.Matches(down) {
		t.Error("down event without a keychar matched a keychar predicate")
	}
}
