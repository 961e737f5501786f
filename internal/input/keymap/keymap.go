package keymap

import (
	"fmt"

	"github.com/dshills/hotkeys/internal/input/hotkey"
)

// Binding is one hotkey declaration as written in a bindings file.
type Binding struct {
	// Keys is the hotkey specification, e.g. "ctrl + shift + a, f5".
	Keys string

	// Parse options.
	SplitKey          string
	Capitalization    bool
	MatchAllModifiers bool
	AcceptOnKeyDown   bool
	TriggerAll        bool

	// Lua is an optional script run when the binding fires.
	Lua string

	// Description provides documentation for the binding.
	Description string
}

// NewBinding creates a binding with default options.
func NewBinding(keys string) Binding {
	return Binding{Keys: keys}
}

// Options returns the parse options the binding declares.
func (b Binding) Options() hotkey.Options {
	return hotkey.Options{
		SplitKey:          b.SplitKey,
		Capitalization:    b.Capitalization,
		MatchAllModifiers: b.MatchAllModifiers,
		AcceptOnKeyDown:   b.AcceptOnKeyDown,
		TriggerAll:        b.TriggerAll,
	}
}

// Parse parses the binding's specification.
func (b Binding) Parse() ([]hotkey.Predicate, error) {
	return hotkey.Parse(b.Keys, b.Options())
}

// Keymap holds the bindings loaded from one source.
type Keymap struct {
	// Name is the keymap identifier.
	Name string

	// Source indicates where this keymap was defined, usually a file path.
	Source string

	// Bindings are the declared hotkeys.
	Bindings []Binding
}

// NewKeymap creates a new keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:     name,
		Bindings: make([]Binding, 0),
	}
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add adds a binding with default options to this keymap.
func (k *Keymap) Add(keys string) *Keymap {
	k.Bindings = append(k.Bindings, NewBinding(keys))
	return k
}

// AddBinding adds a fully configured binding to this keymap.
func (k *Keymap) AddBinding(binding Binding) *Keymap {
	k.Bindings = append(k.Bindings, binding)
	return k
}

// Validate checks that all bindings in the keymap parse.
func (k *Keymap) Validate() error {
	_, err := k.parse()
	return err
}

// parse parses every binding, failing on the first invalid one.
func (k *Keymap) parse() ([][]hotkey.Predicate, error) {
	parsed := make([][]hotkey.Predicate, len(k.Bindings))
	for i, b := range k.Bindings {
		if b.Keys == "" {
			return nil, fmt.Errorf("binding %d: empty keys", i)
		}
		preds, err := b.Parse()
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s): %w", i, b.Keys, err)
		}
		parsed[i] = preds
	}
	return parsed, nil
}

// CallbackFactory returns the callback for the binding at index i of a
// keymap.
type CallbackFactory func(i int, b Binding) Callback

// Register parses every binding and, only if all parse, registers them.
// callbackFor supplies the callback for each binding.
func (k *Keymap) Register(r *Registry, callbackFor CallbackFactory) ([]EntryID, error) {
	parsed, err := k.parse()
	if err != nil {
		return nil, fmt.Errorf("keymap %q: %w", k.Name, err)
	}

	ids := make([]EntryID, 0, len(parsed))
	for i, preds := range parsed {
		b := k.Bindings[i]
		added, err := r.Register(preds, b.TriggerAll, callbackFor(i, b))
		if err != nil {
			for _, id := range ids {
				r.RemoveEntry(id)
			}
			return nil, fmt.Errorf("keymap %q binding %d: %w", k.Name, i, err)
		}
		ids = append(ids, added...)
	}
	return ids, nil
}
