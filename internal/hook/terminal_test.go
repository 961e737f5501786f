package hook

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hotkeys/internal/input/hotkey"
	"github.com/dshills/hotkeys/internal/input/key"
)

func TestConvertKeyRune(t *testing.T) {
	events := ConvertKey(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModAlt))
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}

	down, press := events[0], events[1]
	if down.Kind != key.KindDown || down.Rawcode != 65 || down.Keychar != 0 {
		t.Errorf("down = %#v", down)
	}
	if press.Kind != key.KindPress || press.Keychar != 'a' || press.Rawcode != 65 {
		t.Errorf("press = %#v", press)
	}
	if !down.Alt || !press.Alt || press.Ctrl || press.Shift {
		t.Errorf("modifiers = %s", press.Modifiers())
	}
}

func TestConvertKeyUppercaseImpliesShift(t *testing.T) {
	events := ConvertKey(tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone))
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if !events[1].Shift || events[1].Keychar != 'Q' || events[1].Rawcode != 'Q' {
		t.Errorf("press = %#v", events[1])
	}
}

func TestConvertKeyNamed(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		mod  tcell.ModMask
		want string
	}{
		{"enter", tcell.KeyEnter, tcell.ModNone, "enter"},
		{"shift f5", tcell.KeyF5, tcell.ModShift, "shift + f5"},
		{"ctrl home", tcell.KeyHome, tcell.ModCtrl, "ctrl + home"},
		{"escape", tcell.KeyEscape, tcell.ModNone, "esc"},
		{"delete", tcell.KeyDelete, tcell.ModNone, "delete"},
		{"page down", tcell.KeyPgDn, tcell.ModNone, "pgdn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := ConvertKey(tcell.NewEventKey(tt.key, 0, tt.mod))
			if len(events) != 2 {
				t.Fatalf("len = %d, want 2", len(events))
			}
			for _, ev := range events {
				if got := hotkey.Format(ev); got != tt.want {
					t.Errorf("Format(%s) = %q, want %q", ev.Kind, got, tt.want)
				}
			}
		})
	}
}

func TestConvertKeyCtrlLetter(t *testing.T) {
	events := ConvertKey(tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl))
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	for _, ev := range events {
		if ev.Rawcode != 'S' || !ev.Ctrl {
			t.Errorf("event = %#v", ev)
		}
	}

	preds := hotkey.MustParse("ctrl + s", hotkey.DefaultOptions())
	if !preds[0].Matches(events[1]) {
		t.Error("ctrl + s does not match the converted press")
	}
}

func TestConvertKeyUnsupported(t *testing.T) {
	if events := ConvertKey(tcell.NewEventKey(tcell.KeyF13, 0, tcell.ModNone)); events != nil {
		t.Errorf("F13 converted to %v", events)
	}
	if events := ConvertKey(tcell.NewEventKey(tcell.KeyRune, '😀', tcell.ModNone)); events != nil {
		t.Errorf("astral rune converted to %v", events)
	}
}

func TestRawcodeForRune(t *testing.T) {
	tests := map[rune]uint16{
		'a': 65,
		'Z': 90,
		'7': '7',
		' ': key.CodeSpace,
		'+': 0,
	}
	for r, want := range tests {
		if got := rawcodeForRune(r); got != want {
			t.Errorf("rawcodeForRune(%q) = %d, want %d", r, got, want)
		}
	}
}
