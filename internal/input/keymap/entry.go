package keymap

import (
	"fmt"
	"strings"

	"github.com/dshills/hotkeys/internal/input/hotkey"
)

// Callback receives the display text of the entry that matched.
type Callback func(hotkey string)

// EntryID identifies a registered entry.
type EntryID uint64

// entry is a registered single predicate or group.
type entry struct {
	id    EntryID
	group bool

	// preds is replaced, never mutated in place, so dispatch snapshots
	// stay valid.
	preds   []hotkey.Predicate
	display string
	cb      Callback
}

// matches reports whether the entry fires for the event.
func (e *entry) matches(ev eventView) bool {
	for _, p := range e.preds {
		if p.Accepts(ev.isKeyDown) && p.Matches(ev.event) {
			return true
		}
	}
	return false
}

// EntryInfo is a read-only view of a registered entry.
type EntryInfo struct {
	ID         EntryID
	Group      bool
	Display    string
	Predicates []hotkey.Predicate
}

// String returns a one-line description for diagnostics.
func (i EntryInfo) String() string {
	kind := "single"
	if i.Group {
		kind = "group"
	}
	preds := make([]string, len(i.Predicates))
	for j, p := range i.Predicates {
		preds[j] = "{" + p.String() + "}"
	}
	return fmt.Sprintf("#%d %s %q %s", i.ID, kind, i.Display, strings.Join(preds, " "))
}
