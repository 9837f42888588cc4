// Where: internal/infra/bootstrap/bootstrap.go
// What: First-run download and install of the uploader tool.
// Why: Deploys should work on machines that never installed the uploader.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/poruru/itchdeploy/internal/domain/platform"
	"github.com/poruru/itchdeploy/internal/infra/ui"
	"github.com/poruru/itchdeploy/internal/logging"
	"github.com/sirupsen/logrus"
)

// Bootstrapper downloads a platform archive, extracts it into Dir and returns
// the path of the extracted binary. Nothing is retried.
type Bootstrapper struct {
	Platform    platform.Info
	Tool        string
	Version     string
	URLTemplate string
	Dir         string
	Timeout     time.Duration
	Downloader  Downloader
	UI          ui.UserInterface
	Logger      logrus.FieldLogger
}

// Bootstrap installs the tool. Every failure is printed and returned; the caller
// decides whether to stop.
func (b Bootstrapper) Bootstrap(ctx context.Context) (string, error) {
	out := ui.OrDiscard(b.UI)
	log := logging.OrDiscard(b.Logger).WithField("tool", b.Tool)

	path, err := b.bootstrap(ctx, out, log)
	if err != nil {
		out.Error(err.Error())
		return "", err
	}
	out.Success(fmt.Sprintf("%s bootstrapped successfully!", displayName(b.Tool)))
	return path, nil
}

func (b Bootstrapper) bootstrap(ctx context.Context, out ui.UserInterface, log logrus.FieldLogger) (string, error) {
	dir := strings.TrimSpace(b.Dir)
	if dir == "" {
		return "", errDirRequired
	}
	out.Step(fmt.Sprintf("%s not found. Bootstrapping to %s...", displayName(b.Tool), dir))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	url, err := RenderURL(b.URLTemplate, URLParams{
		Tool:    b.Tool,
		OS:      b.Platform.OS,
		Arch:    b.Platform.Arch,
		Version: b.Version,
	})
	if err != nil {
		return "", err
	}

	archive := filepath.Join(dir, b.Tool+".zip")
	out.Info(fmt.Sprintf("Downloading from %s...", url))
	size, err := b.download(ctx, url, archive)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDownload, displayName(b.Tool), err)
	}
	log.WithFields(logrus.Fields{"url": url, "bytes": size}).Debug("downloaded archive")
	out.Info(fmt.Sprintf("Downloaded %s.", humanize.Bytes(uint64(size))))

	out.Info("Extracting...")
	count, err := ExtractZip(archive, dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtract, displayName(b.Tool), err)
	}
	log.WithField("files", count).Debug("extracted archive")

	exe := filepath.Join(dir, b.Platform.Binary)
	info, err := os.Stat(exe)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: extracted but %s not found in %s", ErrBinaryMissing, b.Platform.Binary, dir)
	}

	if !b.Platform.Windows() {
		if err := os.Chmod(exe, info.Mode()|0o100); err != nil {
			return "", fmt.Errorf("make %s executable: %w", exe, err)
		}
	}

	abs, err := filepath.Abs(exe)
	if err != nil {
		return "", err
	}
	return abs, nil
}

func (b Bootstrapper) download(ctx context.Context, url, dest string) (int64, error) {
	downloader := b.Downloader
	if downloader == nil {
		downloader = HTTPDownloader{}
	}
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}
	size, err := downloader.Download(ctx, url, dest)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return size, fmt.Errorf("timed out after %s: %w", b.Timeout, err)
	}
	return size, err
}

func displayName(tool string) string {
	if tool == "" {
		return "tool"
	}
	return strings.ToUpper(tool[:1]) + tool[1:]
}
