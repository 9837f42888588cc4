// Where: internal/command/tools.go
// What: locate and bootstrap command adapters.
// Why: Inspect or prepare the toolchain without running a deploy.
package command

import (
	"github.com/poruru/itchdeploy/internal/infra/config"
	"github.com/poruru/itchdeploy/internal/infra/ui"
)

type (
	// LocateCmd prints tool locations without downloading anything.
	LocateCmd struct{}

	// BootstrapCmd downloads the uploader even when one is installed.
	BootstrapCmd struct {
		UploaderVersion string `name:"uploader-version" help:"Uploader version to download (or LATEST)"`
	}
)

const notFound = "(not found)"

func runLocate(s session) int {
	req, err := s.request(config.Overrides{})
	if err != nil {
		return s.fail(err)
	}
	tools, locateErr := s.workflow(req.Root).Locate(req)

	engine := valueOr(tools.Engine, notFound)
	if tools.Container {
		engine = tools.Engine + " (in " + req.Config.Engine.Image + ")"
	}
	s.ui.Block("🔧", "Tools", []ui.KeyValue{
		{Key: "Engine", Value: engine},
		{Key: "Uploader", Value: valueOr(tools.Uploader, notFound)},
		{Key: "Project root", Value: req.Root},
	})
	if locateErr != nil {
		return s.fail(locateErr)
	}
	return 0
}

func runBootstrap(s session) int {
	req, err := s.request(config.Overrides{UploaderVersion: s.cli.Bootstrap.UploaderVersion})
	if err != nil {
		return s.fail(err)
	}
	path, err := s.workflow(req.Root).Bootstrap(s.ctx, req)
	if err != nil {
		return s.fail(err)
	}
	s.ui.Info("Uploader: " + path)
	return 0
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
