package action

import (
	"errors"
	"fmt"
)

// Errors for Lua actions.
var (
	// ErrRunnerClosed is returned when operating on a closed runner.
	ErrRunnerClosed = errors.New("lua runner is closed")

	// ErrEmptyScript is returned when compiling an empty script.
	ErrEmptyScript = errors.New("empty lua script")
)

// ScriptError reports a script that failed to compile or run.
type ScriptError struct {
	Name string
	Op   string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("lua %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
