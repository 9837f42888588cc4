// Where: internal/usecase/deploy/workflow.go
// What: Deploy workflow dependencies and shared helpers.
// Why: Inject every side effect so the workflow runs under test without a network.
package deploy

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poruru/itchdeploy/internal/domain/platform"
	"github.com/poruru/itchdeploy/internal/infra/bootstrap"
	"github.com/poruru/itchdeploy/internal/infra/config"
	"github.com/poruru/itchdeploy/internal/infra/ledger"
	"github.com/poruru/itchdeploy/internal/infra/mirror"
	"github.com/poruru/itchdeploy/internal/infra/runner"
	"github.com/poruru/itchdeploy/internal/infra/ui"
	"github.com/poruru/itchdeploy/internal/logging"
	"github.com/sirupsen/logrus"
)

// ToolLocator finds a tool on the search path or among candidates.
type ToolLocator interface {
	Find(tool string, candidates []string) (string, bool)
}

// ContainerFactory returns a runner that executes inside image with hostDir mounted.
type ContainerFactory func(image, hostDir string) (runner.CommandRunner, error)

// MirrorFactory returns the build mirror for cfg.
type MirrorFactory func(ctx context.Context, cfg config.Mirror) (BuildMirror, error)

// LedgerFactory returns the run ledger for cfg.
type LedgerFactory func(ctx context.Context, cfg config.Ledger) (ledger.Writer, error)

// BuildMirror uploads an export directory.
type BuildMirror interface {
	Upload(ctx context.Context, dir, runID string) (mirror.Summary, error)
}

// Request captures the inputs of one run.
type Request struct {
	Config config.Deploy
	// Root is the directory relative config paths are resolved against.
	Root string
}

// Result describes a successful run.
type Result struct {
	RunID        string
	EnginePath   string
	UploaderPath string
	Bootstrapped bool
	OutputPath   string
	Target       string
	Started      time.Time
	Finished     time.Time
}

// Workflow sequences locate, bootstrap, export, push, and the optional mirror
// and ledger steps. Nil optional fields disable or default the matching step.
type Workflow struct {
	GOOS       string
	Locator    ToolLocator
	Candidates platform.CandidateProvider
	Downloader bootstrap.Downloader
	Runner     runner.CommandRunner
	Container  ContainerFactory
	Mirror     MirrorFactory
	Ledger     LedgerFactory
	UI         ui.UserInterface
	Logger     logrus.FieldLogger
	Now        func() time.Time
	NewRunID   func() string
}

func (w Workflow) ui() ui.UserInterface {
	return ui.OrDiscard(w.UI)
}

func (w Workflow) logger() logrus.FieldLogger {
	return logging.OrDiscard(w.Logger)
}

func (w Workflow) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w Workflow) runID() string {
	if w.NewRunID != nil {
		return w.NewRunID()
	}
	return uuid.NewString()
}

func (w Workflow) platform(tool string) platform.Info {
	if w.GOOS == "" {
		return platform.Current(tool)
	}
	return platform.Detect(w.GOOS, tool)
}

// candidates returns config extras followed by the platform defaults.
func (w Workflow) candidates(tool string, extras []string, bootstrapDir string) []string {
	defaults := w.Candidates
	if defaults == nil {
		provider := platform.NewDefaultCandidates(bootstrapDir)
		if w.GOOS != "" {
			provider.GOOS = w.GOOS
		}
		defaults = provider
	}
	return platform.ChainCandidates{
		platform.StaticCandidates{tool: extras},
		defaults,
	}.Candidates(tool)
}

// resolvePath anchors a relative config path at root.
func resolvePath(root, path string) string {
	path = strings.TrimSpace(path)
	if filepath.IsAbs(path) || root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
