package logsetup

import "github.com/pkg/errors"

// ErrAlreadyInitialized is returned by Setup once the global logger exists.
var ErrAlreadyInitialized = errors.New("logger already initialized")

// SetupError reports which step of building the pipeline failed.
type SetupError struct {
	Op  string
	Err error
}

func (e *SetupError) Error() string {
	return "log setup: " + e.Op + ": " + e.Err.Error()
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// Cause supports errors.Cause from github.com/pkg/errors.
func (e *SetupError) Cause() error {
	return e.Err
}
