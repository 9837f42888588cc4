// Where: internal/infra/runner/errors.go
// What: Runner error types.
// Why: Let callers tell a missing executable apart from a failing one.
package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrCommandNotFound means the executable could not be located or started.
	ErrCommandNotFound = errors.New("command not found")
	// ErrEmptyCommand means the argument vector was empty.
	ErrEmptyCommand = errors.New("empty command")
)

// ExitError reports a command that started but exited with a non-zero status.
type ExitError struct {
	Description string
	Code        int
	Err         error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s failed with return code %d", e.Description, e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit status carried by err, or -1 when err is not an ExitError.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
