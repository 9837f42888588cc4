// Where: cmd/itchdeploy/main.go
// What: itchdeploy process entrypoint.
// Why: The only place that exits the process; everything else returns errors.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/poruru/itchdeploy/internal/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	deps, closer := buildDependencies(ctx)
	exitCode := command.Run(os.Args[1:], deps)
	_ = closer.Close()
	stop()
	os.Exit(exitCode)
}
