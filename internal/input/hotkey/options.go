package hotkey

import (
	"fmt"
	"strings"
)

// DefaultSplitKey separates sub-keys within a token.
const DefaultSplitKey = "+"

// Options controls how a specification is parsed and registered.
type Options struct {
	// SplitKey separates sub-keys. Empty means DefaultSplitKey.
	SplitKey string

	// Capitalization makes single letters match the exact character
	// instead of the physical key.
	Capitalization bool

	// MatchAllModifiers requires the event's modifiers to equal the
	// predicate's instead of merely including them.
	MatchAllModifiers bool

	// AcceptOnKeyDown lets key-down events satisfy the predicate.
	AcceptOnKeyDown bool

	// TriggerAll registers every token as an independent entry instead of
	// one group sharing a callback.
	TriggerAll bool
}

// DefaultOptions returns the default parse options.
func DefaultOptions() Options {
	return Options{SplitKey: DefaultSplitKey}
}

// splitKey returns the effective split key.
func (o Options) splitKey() string {
	if o.SplitKey == "" {
		return DefaultSplitKey
	}
	return o.SplitKey
}

// Validate reports option values that cannot be honoured.
func (o Options) Validate() error {
	sk := o.splitKey()
	if strings.Contains(sk, ",") {
		return fmt.Errorf("%w: split key %q collides with the token separator", ErrInvalidOption, sk)
	}
	if strings.TrimSpace(sk) == "" {
		return fmt.Errorf("%w: split key must not be whitespace", ErrInvalidOption)
	}
	return nil
}
