// Where: internal/usecase/deploy/tools.go
// What: Engine and uploader resolution, including the uploader bootstrap.
// Why: Shared by the deploy run and the locate/bootstrap commands.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/poruru/itchdeploy/internal/envutil"
	"github.com/poruru/itchdeploy/internal/infra/bootstrap"
	"github.com/poruru/itchdeploy/internal/infra/config"
	"github.com/poruru/itchdeploy/internal/meta"
)

// Tools reports where the engine and uploader were found. Empty means missing.
type Tools struct {
	Engine   string
	Uploader string
	// Container is set when the engine runs inside an image instead of locally.
	Container bool
}

// Locate resolves both tools without bootstrapping or touching the network.
// Missing tools are reported together in one *Error.
func (w Workflow) Locate(req Request) (Tools, error) {
	if w.Locator == nil {
		return Tools{}, fail(KindConfig, "locate", errLocatorNotConfigured)
	}
	cfg := req.Config
	tools := Tools{Container: cfg.Engine.Image != ""}
	if tools.Container {
		tools.Engine = cfg.Engine.Name
	} else if path, ok := w.findEngine(cfg, req.Root); ok {
		tools.Engine = path
	}
	if path, ok := w.findUploader(cfg, req.Root); ok {
		tools.Uploader = path
	}

	var errs []error
	if tools.Engine == "" {
		errs = append(errs, fmt.Errorf("%w: %s", ErrEngineNotFound, cfg.Engine.Name))
	}
	if tools.Uploader == "" {
		errs = append(errs, fmt.Errorf("%w: %s", ErrUploaderNotFound, cfg.Uploader.Name))
	}
	if len(errs) > 0 {
		return tools, fail(KindToolNotFound, "locate", errors.Join(errs...))
	}
	return tools, nil
}

// Bootstrap downloads the uploader into the configured directory even when
// another copy is installed.
func (w Workflow) Bootstrap(ctx context.Context, req Request) (string, error) {
	return w.bootstrapUploader(ctx, req.Config, req.Root)
}

func (w Workflow) findEngine(cfg config.Deploy, root string) (string, bool) {
	name := cfg.Engine.Name
	return w.Locator.Find(name, w.candidates(name, anchorCandidates(root, cfg.Engine.Candidates), ""))
}

func (w Workflow) findUploader(cfg config.Deploy, root string) (string, bool) {
	name := cfg.Uploader.Name
	dir := resolvePath(root, cfg.Uploader.Dir)
	return w.Locator.Find(name, w.candidates(name, anchorCandidates(root, cfg.Uploader.Candidates), dir))
}

// locateEngine returns the engine path, or the in-image command name in container mode.
func (w Workflow) locateEngine(cfg config.Deploy, root string) (string, error) {
	if cfg.Engine.Image != "" {
		return cfg.Engine.Name, nil
	}
	path, ok := w.findEngine(cfg, root)
	if !ok {
		out := w.ui()
		out.Error(fmt.Sprintf("%s Engine not found!", title(cfg.Engine.Name)))
		out.Info(fmt.Sprintf("Please ensure %s is in your PATH or installed in standard locations.", title(cfg.Engine.Name)))
		out.Info("Download: " + meta.EngineDownloadURL)
		return "", fail(KindToolNotFound, "locate engine", fmt.Errorf("%w: %s", ErrEngineNotFound, cfg.Engine.Name))
	}
	return path, nil
}

func (w Workflow) bootstrapUploader(ctx context.Context, cfg config.Deploy, root string) (string, error) {
	name := cfg.Uploader.Name
	b := bootstrap.Bootstrapper{
		Platform:    w.platform(name),
		Tool:        name,
		Version:     cfg.Uploader.Version,
		URLTemplate: cfg.Uploader.URL,
		Dir:         resolvePath(root, cfg.Uploader.Dir),
		Timeout:     cfg.Timeouts.Download,
		Downloader:  w.Downloader,
		UI:          w.UI,
		Logger:      w.Logger,
	}
	path, err := b.Bootstrap(ctx)
	if err != nil {
		out := w.ui()
		out.Error(fmt.Sprintf("Could not download/install %s automatically.", title(name)))
		out.Info("Please download it manually: " + meta.UploaderInstallURL)
		return "", fail(KindBootstrap, "bootstrap "+name, err)
	}
	return path, nil
}

// anchorCandidates expands configured candidates and anchors relative ones at
// root, matching how the runner resolves them later.
func anchorCandidates(root string, candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}
	out := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		out = append(out, resolvePath(root, envutil.ExpandPath(candidate)))
	}
	return out
}

func title(name string) string {
	if name == "" {
		return "Tool"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
