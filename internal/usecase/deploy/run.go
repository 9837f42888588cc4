// Where: internal/usecase/deploy/run.go
// What: Workflow.Run, the linear deploy sequence.
// Why: Keep the step order visible in one place; every failure stops the run.
package deploy

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/poruru/itchdeploy/internal/infra/config"
	"github.com/poruru/itchdeploy/internal/infra/container"
	"github.com/poruru/itchdeploy/internal/infra/ledger"
	"github.com/poruru/itchdeploy/internal/infra/runner"
	"github.com/sirupsen/logrus"
)

// Run executes locate, bootstrap (when needed), export and push, then the
// optional mirror and ledger steps. The engine is resolved before any
// network access.
func (w Workflow) Run(ctx context.Context, req Request) (Result, error) {
	if w.Locator == nil {
		return Result{}, fail(KindConfig, "deploy", errLocatorNotConfigured)
	}
	if w.Runner == nil {
		return Result{}, fail(KindConfig, "deploy", errRunnerNotConfigured)
	}
	cfg := req.Config
	out := w.ui()
	result := Result{
		RunID:   w.runID(),
		Target:  cfg.Target(),
		Started: w.now(),
	}
	log := w.logger().WithFields(logrus.Fields{"run_id": result.RunID, "target": result.Target})

	if err := checkContainerOutput(cfg, req.Root); err != nil {
		out.Error(err.Error())
		return result, fail(KindConfig, "export dir", err)
	}

	enginePath, err := w.locateEngine(cfg, req.Root)
	if err != nil {
		return result, err
	}
	result.EnginePath = enginePath

	uploaderPath, found := w.findUploader(cfg, req.Root)
	if !found {
		uploaderPath, err = w.bootstrapUploader(ctx, cfg, req.Root)
		if err != nil {
			return result, err
		}
		result.Bootstrapped = true
	}
	result.UploaderPath = uploaderPath

	out.Info(fmt.Sprintf("Using %s: %s", title(cfg.Engine.Name), enginePath))
	out.Info(fmt.Sprintf("Using %s: %s", title(cfg.Uploader.Name), uploaderPath))

	exportDir := resolvePath(req.Root, cfg.Export.Dir)
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		out.Error(fmt.Sprintf("Could not create %s: %v", exportDir, err))
		return result, fail(KindFilesystem, "create export dir", err)
	}
	result.OutputPath = resolvePath(req.Root, cfg.OutputPath())

	engineRunner, err := w.engineRunner(cfg, req.Root)
	if err != nil {
		out.Error(err.Error())
		return result, fail(KindCommand, "engine runner", err)
	}
	exportArgv := []string{enginePath, "--headless", "--export-release", cfg.Export.Preset, result.OutputPath}
	if err := runStep(ctx, engineRunner, cfg.Timeouts.Export, fmt.Sprintf("%s Export (%s)", title(cfg.Engine.Name), cfg.Export.Preset), exportArgv); err != nil {
		return result, fail(KindCommand, "export", err)
	}
	log.WithField("output", result.OutputPath).Debug("export finished")

	pushArgv := []string{uploaderPath, "push", exportDir, result.Target}
	if err := runStep(ctx, w.Runner, cfg.Timeouts.Push, fmt.Sprintf("%s Push to itch.io", title(cfg.Uploader.Name)), pushArgv); err != nil {
		return result, fail(KindCommand, "push", err)
	}
	log.Debug("push finished")

	if err := w.mirrorBuild(ctx, cfg, exportDir, result.RunID); err != nil {
		out.Error(fmt.Sprintf("Build mirror failed: %v", err))
		return result, fail(KindMirror, "mirror", err)
	}

	result.Finished = w.now()
	w.recordRun(ctx, cfg, result)

	out.Success("Deployment Complete!")
	return result, nil
}

func runStep(ctx context.Context, r runner.CommandRunner, timeout time.Duration, description string, argv []string) error {
	stepCtx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	return r.Run(stepCtx, description, argv)
}

// checkContainerOutput rejects an export dir the container mount cannot reach.
func checkContainerOutput(cfg config.Deploy, root string) error {
	if cfg.Engine.Image == "" {
		return nil
	}
	exportDir := resolvePath(root, cfg.Export.Dir)
	if _, ok := container.MountRel(root, exportDir); !ok {
		return fmt.Errorf("%w: export dir %s (mount %s)", container.ErrOutsideMount, exportDir, root)
	}
	return nil
}

func (w Workflow) engineRunner(cfg config.Deploy, root string) (runner.CommandRunner, error) {
	if cfg.Engine.Image == "" {
		return w.Runner, nil
	}
	if w.Container == nil {
		return nil, errContainerNotConfigured
	}
	return w.Container(cfg.Engine.Image, root)
}

func (w Workflow) mirrorBuild(ctx context.Context, cfg config.Deploy, exportDir, runID string) error {
	if !cfg.Mirror.Enabled() {
		return nil
	}
	if w.Mirror == nil {
		w.logger().Warn("mirror configured but no mirror factory wired; skipping")
		return nil
	}
	m, err := w.Mirror(ctx, cfg.Mirror)
	if err != nil {
		return err
	}
	_, err = m.Upload(ctx, exportDir, runID)
	return err
}

// recordRun writes the ledger entry. Failures only warn; the build is already live.
func (w Workflow) recordRun(ctx context.Context, cfg config.Deploy, result Result) {
	if !cfg.Ledger.Enabled() || w.Ledger == nil {
		return
	}
	writer, err := w.Ledger(ctx, cfg.Ledger)
	if err == nil {
		err = writer.Put(ctx, ledger.Record{
			RunID:        result.RunID,
			Account:      cfg.Account,
			Project:      cfg.Project,
			Channel:      cfg.Channel,
			Engine:       result.EnginePath,
			Uploader:     result.UploaderPath,
			Bootstrapped: result.Bootstrapped,
			StartedAt:    result.Started,
			FinishedAt:   result.Finished,
		})
	}
	if err != nil {
		w.ui().Warn(fmt.Sprintf("Could not record run in %s: %v", cfg.Ledger.Table, err))
		return
	}
	w.logger().WithField("table", cfg.Ledger.Table).Debug("run recorded")
}
