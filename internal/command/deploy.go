// Where: internal/command/deploy.go
// What: Deploy command adapter.
// Why: Turn flags and config into a workflow request and map the result to an exit code.
package command

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poruru/itchdeploy/internal/infra/config"
	"github.com/poruru/itchdeploy/internal/infra/ui"
	"github.com/poruru/itchdeploy/internal/usecase/deploy"
)

// DeployCmd defines the deploy command flags. Empty flags keep the configured value.
type DeployCmd struct {
	Account         string `help:"itch.io account"`
	Project         string `help:"itch.io project"`
	Channel         string `help:"itch.io channel"`
	Preset          string `help:"Engine export preset"`
	ExportDir       string `name:"export-dir" help:"Export output directory"`
	ExportFile      string `name:"export-file" help:"Export output file name"`
	UploaderVersion string `name:"uploader-version" help:"Uploader version to bootstrap (or LATEST)"`
	EngineImage     string `name:"engine-image" help:"Run the engine export inside this container image"`
}

func (c DeployCmd) overrides() config.Overrides {
	return config.Overrides{
		Account:         c.Account,
		Project:         c.Project,
		Channel:         c.Channel,
		ExportPreset:    c.Preset,
		ExportDir:       c.ExportDir,
		ExportFile:      c.ExportFile,
		UploaderVersion: c.UploaderVersion,
		EngineImage:     c.EngineImage,
	}
}

func runDeploy(s session) int {
	req, err := s.request(s.cli.Deploy.overrides())
	if err != nil {
		return s.fail(err)
	}
	result, err := s.workflow(req.Root).Run(s.ctx, req)
	if err != nil {
		return s.fail(err)
	}
	s.ui.Block("🚀", "Deployed", []ui.KeyValue{
		{Key: "Target", Value: result.Target},
		{Key: "Output", Value: result.OutputPath},
		{Key: "Run ID", Value: result.RunID},
		{Key: "Duration", Value: result.Finished.Sub(result.Started).Round(time.Millisecond)},
	})
	return 0
}

// request resolves the project root and the layered configuration.
func (s session) request(overrides config.Overrides) (deploy.Request, error) {
	root, err := s.deps.ProjectResolver("")
	if err != nil {
		return deploy.Request{}, fmt.Errorf("resolve project root: %w", err)
	}
	path, err := s.configPath(root)
	if err != nil {
		return deploy.Request{}, err
	}
	cfg, err := config.Resolve(path, s.deps.LookupEnv, overrides)
	if err != nil {
		return deploy.Request{}, fmt.Errorf("load config: %w", err)
	}
	s.logger.WithField("root", root).WithField("config", path).Debug("resolved deploy request")
	return deploy.Request{Config: cfg, Root: root}, nil
}

// configPath returns the explicit --config path (which must exist) or the
// discovered file, or "" to run on defaults.
func (s session) configPath(root string) (string, error) {
	explicit := strings.TrimSpace(s.cli.Config)
	if explicit == "" {
		return config.DiscoverConfigFile(root), nil
	}
	abs, err := filepath.Abs(explicit)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("config file: %w", err)
	}
	return abs, nil
}
