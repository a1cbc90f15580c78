package refactor

import (
	"errors"
)

// ErrNilRule is returned when registering a nil rule.
var ErrNilRule = errors.New("rule is nil")

// FatalError marks a rule failure that must halt the surrounding batch.
type FatalError struct {
	Err error
}

// Fatal wraps err so that the traverser stops at it. Fatal(nil) returns nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}

	return &FatalError{Err: err}
}

// Error implements error.
func (e *FatalError) Error() string {
	return "fatal: " + e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err carries a FatalError anywhere in its chain.
func IsFatal(err error) bool {
	var fatal *FatalError

	return errors.As(err, &fatal)
}
