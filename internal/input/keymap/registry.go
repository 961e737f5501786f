package keymap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/hotkeys/internal/input/hotkey"
	"github.com/dshills/hotkeys/internal/input/key"
)

// Registry errors.
var (
	ErrNoPredicates = errors.New("no predicates to register")
	ErrNilCallback  = errors.New("nil callback")
)

// Registry holds registered hotkeys in registration order.
type Registry struct {
	mu sync.RWMutex

	entries []*entry
	nextID  EntryID
}

// eventView carries an event and how it is being dispatched.
type eventView struct {
	event     key.Event
	isKeyDown bool
}

// firing is a callback captured during a dispatch pass.
type firing struct {
	cb      Callback
	display string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make([]*entry, 0),
	}
}

// Register adds predicates under a callback.
//
// With triggerAll each predicate becomes its own entry carrying cb, so each
// fires independently. Otherwise the predicates form one group whose
// display text is the comma-join of their trimmed sources, so
// "ctrl + a, a" displays as "ctrl + a,a". The same join is used when a
// removal shrinks the group, so display text never depends on how the
// original string was spaced.
func (r *Registry) Register(preds []hotkey.Predicate, triggerAll bool, cb Callback) ([]EntryID, error) {
	if len(preds) == 0 {
		return nil, ErrNoPredicates
	}
	if cb == nil {
		return nil, ErrNilCallback
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if triggerAll {
		ids := make([]EntryID, 0, len(preds))
		for _, p := range preds {
			ids = append(ids, r.appendLocked(&entry{
				preds:   []hotkey.Predicate{p},
				display: p.Source,
				cb:      cb,
			}))
		}
		return ids, nil
	}

	group := &entry{
		group:   true,
		preds:   append([]hotkey.Predicate(nil), preds...),
		display: hotkey.JoinSources(preds),
		cb:      cb,
	}
	return []EntryID{r.appendLocked(group)}, nil
}

// RegisterSpec parses spec with opts and registers the result.
// opts.TriggerAll selects single-predicate entries.
func (r *Registry) RegisterSpec(spec string, opts hotkey.Options, cb Callback) ([]EntryID, error) {
	preds, err := hotkey.Parse(spec, opts)
	if err != nil {
		return nil, fmt.Errorf("registering %q: %w", spec, err)
	}
	return r.Register(preds, opts.TriggerAll, cb)
}

// appendLocked assigns an ID and appends. Caller must hold the write lock.
func (r *Registry) appendLocked(e *entry) EntryID {
	r.nextID++
	e.id = r.nextID
	r.entries = append(r.entries, e)
	return e.id
}

// Dispatch tests the event against every entry and invokes the callback of
// each matching entry once, in registration order. Key-down events only
// reach predicates that accept them. Returns the number of callbacks run.
//
// Callbacks run after the registry lock is released, so they may register
// or remove hotkeys. Such changes take effect from the next event.
func (r *Registry) Dispatch(ev key.Event, isKeyDown bool) int {
	view := eventView{event: ev, isKeyDown: isKeyDown}

	r.mu.RLock()
	var fired []firing
	for _, e := range r.entries {
		if e.matches(view) {
			fired = append(fired, firing{cb: e.cb, display: e.display})
		}
	}
	r.mu.RUnlock()

	for _, f := range fired {
		f.cb(f.display)
	}
	return len(fired)
}

// Remove deletes registered predicates matched by any removal predicate
// and returns how many predicates were removed.
//
// Removal predicates always compare modifiers exactly. A single entry is
// dropped when its predicate matches; a group loses only matching members,
// has its display text recomputed, and is dropped once empty.
func (r *Registry) Remove(preds []hotkey.Predicate) int {
	if len(preds) == 0 {
		return 0
	}

	removal := make([]hotkey.Predicate, len(preds))
	for i, p := range preds {
		p.MatchAllModifiers = true
		removal[i] = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	kept := r.entries[:0]
	for _, e := range r.entries {
		remaining := make([]hotkey.Predicate, 0, len(e.preds))
		for _, p := range e.preds {
			if hotkey.MatchesAny(removal, p.Event()) {
				removed++
				continue
			}
			remaining = append(remaining, p)
		}

		switch {
		case len(remaining) == 0:
			continue
		case len(remaining) != len(e.preds):
			e = &entry{
				id:      e.id,
				group:   e.group,
				preds:   remaining,
				display: hotkey.JoinSources(remaining),
				cb:      e.cb,
			}
		}
		kept = append(kept, e)
	}
	clear(r.entries[len(kept):])
	r.entries = kept

	return removed
}

// RemoveSpec parses spec with opts and removes the matching predicates.
func (r *Registry) RemoveSpec(spec string, opts hotkey.Options) (int, error) {
	preds, err := hotkey.Parse(spec, opts)
	if err != nil {
		return 0, fmt.Errorf("removing %q: %w", spec, err)
	}
	return r.Remove(preds), nil
}

// RemoveEntry deletes one entry by ID.
func (r *Registry) RemoveEntry(id EntryID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entries returns a snapshot of the registry in registration order.
func (r *Registry) Entries() []EntryInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]EntryInfo, 0, len(r.entries))
	for _, e := range r.entries {
		infos = append(infos, EntryInfo{
			ID:         e.id,
			Group:      e.group,
			Display:    e.display,
			Predicates: append([]hotkey.Predicate(nil), e.preds...),
		})
	}
	return infos
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Clear removes every entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make([]*entry, 0)
}
