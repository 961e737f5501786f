// Package keymap owns the set of registered hotkeys and dispatches
// keyboard events to them.
//
// # Key Concepts
//
// Registry: Ordered list of entries tested against every event.
//
// Entry: Either a single predicate with its own callback, or a group of
// predicates sharing one callback that fires when any member matches.
//
// Keymap: A named collection of bindings loaded from a file, ready to be
// parsed and registered.
//
// # Removal
//
// Removal always compares modifiers exactly, whatever options the caller
// parsed the removal specification with. Removing members from a group
// recomputes its display text; a group that loses its last member is
// dropped.
//
// # Usage
//
//	registry := keymap.NewRegistry()
//	registry.RegisterSpec("ctrl + a, a", hotkey.Options{TriggerAll: true}, func(hk string) {
//	    fmt.Println("fired", hk)
//	})
//
//	fired := registry.Dispatch(ev, ev.IsDown())
package keymap
