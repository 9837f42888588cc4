// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher that never exits the process itself.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/poruru/itchdeploy/internal/constants"
	"github.com/poruru/itchdeploy/internal/domain/platform"
	"github.com/poruru/itchdeploy/internal/infra/bootstrap"
	"github.com/poruru/itchdeploy/internal/infra/config"
	"github.com/poruru/itchdeploy/internal/infra/container"
	"github.com/poruru/itchdeploy/internal/infra/runner"
	"github.com/poruru/itchdeploy/internal/infra/ui"
	"github.com/poruru/itchdeploy/internal/logging"
	"github.com/poruru/itchdeploy/internal/meta"
	"github.com/poruru/itchdeploy/internal/usecase/deploy"
	"github.com/poruru/itchdeploy/internal/version"
	"github.com/sirupsen/logrus"
)

// Dependencies holds all injected dependencies required for CLI command execution.
// Nil fields fall back to the real implementations.
type Dependencies struct {
	Out             io.Writer
	ErrOut          io.Writer
	Context         context.Context
	LookupEnv       config.LookupFunc
	ProjectResolver func(string) (string, error)
	Deploy          DeployDeps
}

// DeployDeps are the side effects of the deploy, locate, and bootstrap commands.
type DeployDeps struct {
	GOOS         string
	LookPath     func(string) (string, error)
	Stat         func(string) (os.FileInfo, error)
	Candidates   platform.CandidateProvider
	Downloader   bootstrap.Downloader
	Runner       runner.CommandRunner
	DockerClient func() (container.DockerAPI, error)
	Mirror       deploy.MirrorFactory
	Ledger       deploy.LedgerFactory
	NewRunID     func() string
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Config  string `short:"c" help:"Path to itchdeploy.yaml (default: discovered at the project root)"`
	EnvFile string `name:"env-file" help:"Path to .env file"`
	Verbose bool   `short:"v" help:"Verbose diagnostic logging"`
	NoEmoji bool   `name:"no-emoji" help:"Disable emoji output"`

	Deploy    DeployCmd    `cmd:"" default:"withargs" help:"Export the game and push it to itch.io"`
	Locate    LocateCmd    `cmd:"" help:"Show where the engine and uploader were found"`
	Bootstrap BootstrapCmd `cmd:"" help:"Download the uploader into the local tool directory"`
	Init      InitCmd      `cmd:"" help:"Write a default itchdeploy.yaml"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

// VersionCmd prints the build version.
type VersionCmd struct{}

// session is the per-invocation state shared by command handlers.
type session struct {
	cli    CLI
	deps   Dependencies
	ctx    context.Context
	ui     ui.UserInterface
	logger logrus.FieldLogger
}

// Run is the main entry point for CLI command execution.
// It parses args, loads the env file, and dispatches to the command handler.
// Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}
	if deps.ProjectResolver == nil {
		deps.ProjectResolver = config.ResolveProjectRoot
	}

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name(meta.AppName),
		kong.Description("Export a Godot project and push it to itch.io with butler."),
		kong.Writers(deps.Out, deps.ErrOut),
	)
	if err != nil {
		return exitWithError(deps.Out, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return exitWithError(deps.Out, err)
	}

	out := ui.NewDeployUI(deps.Out, !cli.NoEmoji)
	root, err := deps.ProjectResolver("")
	if err != nil {
		out.Warn(fmt.Sprintf("resolve project root: %v", err))
	}
	loadEnvFile(cli.EnvFile, root, out)

	level, _ := deps.LookupEnv(constants.EnvLogLevel)
	_, noColor := deps.LookupEnv(constants.EnvNoColor)
	s := session{
		cli:  cli,
		deps: deps,
		ctx:  deps.Context,
		ui:   out,
		logger: logging.New(deps.ErrOut, logging.Options{
			Verbose: cli.Verbose,
			Level:   level,
			NoColor: noColor || cli.NoEmoji,
		}),
	}

	if exitCode, handled := dispatchCommand(ctx.Command(), s); handled {
		return exitCode
	}
	out.Warn("unknown command")
	return 1
}

// loadEnvFile loads the explicit env file, or .env at the project root when
// present. Existing variables are not overwritten.
func loadEnvFile(path, root string, out ui.UserInterface) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			out.Warn(fmt.Sprintf("failed to load env file %s: %v", path, err))
		}
		return
	}
	if root == "" {
		return
	}
	candidate := filepath.Join(root, meta.EnvFile)
	if _, err := os.Stat(candidate); err == nil {
		if err := godotenv.Load(candidate); err != nil {
			out.Warn(fmt.Sprintf("failed to load %s: %v", candidate, err))
		}
	}
}

type commandHandler func(session) int

func dispatchCommand(command string, s session) (int, bool) {
	exactHandlers := map[string]commandHandler{
		"deploy":    runDeploy,
		"locate":    runLocate,
		"bootstrap": runBootstrap,
		"init":      runInit,
		"version":   runVersion,
	}
	if handler, ok := exactHandlers[command]; ok {
		return handler(s), true
	}
	return 1, false
}

// runVersion prints the version information of the CLI.
func runVersion(s session) int {
	s.ui.Info(version.GetVersion())
	return 0
}
