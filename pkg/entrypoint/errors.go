package entrypoint

import (
	"fmt"
)

// ErrEntrypointResolution is returned when an entrypoint name cannot be located.
type ErrEntrypointResolution struct {
	Name   string
	Reason string
}

func (err *ErrEntrypointResolution) Error() string {
	if err.Reason == "" {
		return fmt.Sprintf("could not resolve entrypoint %q", err.Name)
	}
	return fmt.Sprintf("could not resolve entrypoint %q: %s", err.Name, err.Reason)
}

// ErrEntrypointExecution is returned when an entrypoint fails or returns something that is not a list of override
// sets.
type ErrEntrypointExecution struct {
	Name string
	Err  error
}

func (err *ErrEntrypointExecution) Error() string {
	return fmt.Sprintf("entrypoint %q failed: %s", err.Name, err.Err)
}

func (err *ErrEntrypointExecution) Unwrap() error {
	return err.Err
}

// Cause lets errors.Cause from github.com/pkg/errors walk into the underlying error.
func (err *ErrEntrypointExecution) Cause() error {
	return err.Err
}
