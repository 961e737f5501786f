package hotkey

import (
	"errors"
	"fmt"
)

// Parse and option errors.
var (
	// ErrInvalidSpecification indicates a token whose main key cannot be resolved.
	ErrInvalidSpecification = errors.New("invalid hotkey specification")

	// ErrInvalidOption indicates an option value or combination that cannot be honoured.
	ErrInvalidOption = errors.New("invalid hotkey option")
)

// InvalidKeyError identifies the token that aborted a parse.
type InvalidKeyError struct {
	// Token is the trimmed comma-separated token.
	Token string

	// Key is the offending main key within Token.
	Key string
}

func (e *InvalidKeyError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: empty key in %q", ErrInvalidSpecification, e.Token)
	}
	return fmt.Sprintf("%s: unknown key %q in %q", ErrInvalidSpecification, e.Key, e.Token)
}

func (e *InvalidKeyError) Unwrap() error {
	return ErrInvalidSpecification
}
