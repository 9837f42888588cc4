// Where: internal/command/error_helpers.go
// What: Shared CLI error output.
// Why: Every failing command ends with the same one-line summary and exit code.
package command

import (
	"fmt"
	"io"

	"github.com/poruru/itchdeploy/internal/infra/ui"
)

// exitWithError prints an error message to the output writer and returns
// exit code 1 for CLI error handling.
func exitWithError(out io.Writer, err error) int {
	ui.NewDeployUI(out, false).Info(fmt.Sprintf("✗ %v", err))
	return 1
}

func (s session) fail(err error) int {
	return exitWithError(s.deps.Out, err)
}
