// Package stage tags pipeline errors with the step that produced them.
package stage

import (
	"errors"
	"fmt"
)

// Error carries the failing pipeline stage and its cause.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap tags err with a stage name. Returns nil if err is nil.
func Wrap(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Stage: stage, Err: err}
}

// Of returns the outermost stage name in err's chain, or "" if none.
func Of(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
