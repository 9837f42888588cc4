// Where: internal/infra/runner/runner.go
// What: External command execution with inherited standard streams.
// Why: Run the engine export and uploader push with their output visible to the user.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/poruru/itchdeploy/internal/infra/ui"
	"github.com/poruru/itchdeploy/internal/logging"
	"github.com/sirupsen/logrus"
)

// CommandRunner executes one described command.
// A nil error is success.
type CommandRunner interface {
	Run(ctx context.Context, description string, argv []string) error
}

// Exec is a CommandRunner backed by os/exec. Nil streams inherit the process streams.
type Exec struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	UI     ui.UserInterface
	Logger logrus.FieldLogger
}

// Run prints a step banner, executes argv and classifies the failure.
// Both failure kinds print an ERROR diagnostic.
func (r Exec) Run(ctx context.Context, description string, argv []string) error {
	out := ui.OrDiscard(r.UI)
	out.Step(description)

	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		out.Error(fmt.Sprintf("%s: %v", description, ErrEmptyCommand))
		return ErrEmptyCommand
	}

	logging.OrDiscard(r.Logger).WithFields(logrus.Fields{
		"dir":  r.Dir,
		"argv": argv,
	}).Debug("exec")

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdin = firstReader(r.Stdin, os.Stdin)
	cmd.Stdout = firstWriter(r.Stdout, os.Stdout)
	cmd.Stderr = firstWriter(r.Stderr, os.Stderr)

	err := cmd.Run()
	if err == nil {
		return nil
	}
	return classify(out, description, argv[0], err)
}

func classify(out ui.UserInterface, description, name string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		wrapped := &ExitError{Description: description, Code: exitErr.ExitCode(), Err: err}
		out.Error(wrapped.Error())
		return wrapped
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		out.Error(fmt.Sprintf("Command not found: %s", name))
		return fmt.Errorf("%w: %s: %v", ErrCommandNotFound, name, err)
	}

	out.Error(fmt.Sprintf("%s failed: %v", description, err))
	return fmt.Errorf("run %s: %w", name, err)
}

func firstReader(r io.Reader, fallback io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return fallback
}

func firstWriter(w io.Writer, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
