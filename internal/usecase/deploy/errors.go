// Where: internal/usecase/deploy/errors.go
// What: Deploy workflow error taxonomy.
// Why: Let the CLI report one failure kind per run without inspecting messages.
package deploy

import (
	"errors"
	"fmt"
)

var (
	ErrEngineNotFound   = errors.New("engine not found")
	ErrUploaderNotFound = errors.New("uploader not found")

	errLocatorNotConfigured   = errors.New("tool locator is not configured")
	errRunnerNotConfigured    = errors.New("command runner is not configured")
	errContainerNotConfigured = errors.New("container runner is not configured")
)

// Kind classifies a workflow failure.
type Kind string

const (
	KindToolNotFound Kind = "tool-not-found"
	KindBootstrap    Kind = "bootstrap"
	KindFilesystem   Kind = "filesystem"
	KindCommand      Kind = "command"
	KindMirror       Kind = "mirror"
	KindConfig       Kind = "config"
)

// Error is returned by every failing workflow step.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var deployErr *Error
	if errors.As(err, &deployErr) {
		return deployErr.Kind
	}
	return ""
}

func fail(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
