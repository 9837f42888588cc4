// Where: internal/infra/container/runner.go
// What: Engine export inside a container image.
// Why: Build on CI hosts that have a docker daemon but no engine install.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/poruru/itchdeploy/internal/infra/runner"
	"github.com/poruru/itchdeploy/internal/infra/ui"
	"github.com/poruru/itchdeploy/internal/logging"
	"github.com/poruru/itchdeploy/internal/meta"
	"github.com/sirupsen/logrus"
)

var (
	errDockerClientNil = errors.New("docker client is nil")
	errImageRequired   = errors.New("container image is required")
	errHostDirRequired = errors.New("host dir is required")
	// ErrOutsideMount reports an absolute path argument the container cannot see.
	ErrOutsideMount = errors.New("path is outside the mounted project directory")
)

// Runner is a runner.CommandRunner that executes argv inside Image with
// HostDir bind-mounted as the working directory.
type Runner struct {
	Client  DockerAPI
	Image   string
	HostDir string
	Stdout  io.Writer
	Stderr  io.Writer
	UI      ui.UserInterface
	Logger  logrus.FieldLogger
}

var _ runner.CommandRunner = Runner{}

// Run pulls the image, runs argv to completion and removes the container.
// A failed pull is reported as runner.ErrCommandNotFound; a non-zero exit as
// *runner.ExitError.
func (r Runner) Run(ctx context.Context, description string, argv []string) error {
	out := ui.OrDiscard(r.UI)
	out.Step(description)

	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		out.Error(fmt.Sprintf("%s: %v", description, runner.ErrEmptyCommand))
		return runner.ErrEmptyCommand
	}
	if err := r.validate(); err != nil {
		out.Error(err.Error())
		return err
	}
	args, err := r.containerArgs(argv)
	if err != nil {
		out.Error(err.Error())
		return err
	}

	log := logging.OrDiscard(r.Logger).WithFields(logrus.Fields{"image": r.Image, "argv": argv})

	if err := r.pull(ctx); err != nil {
		out.Error(fmt.Sprintf("Command not found: %s (image %s)", argv[0], r.Image))
		return fmt.Errorf("%w: %s: pull %s: %v", runner.ErrCommandNotFound, argv[0], r.Image, err)
	}

	created, err := r.Client.ContainerCreate(ctx, r.containerConfig(args), r.hostConfig(), nil, nil, "")
	if err != nil {
		out.Error(fmt.Sprintf("%s failed: %v", description, err))
		return fmt.Errorf("create container: %w", err)
	}
	id := created.ID
	log = log.WithField("container", id)
	defer func() {
		if err := r.Client.ContainerRemove(context.WithoutCancel(ctx), id, container.RemoveOptions{Force: true}); err != nil {
			log.WithError(err).Warn("remove container")
		}
	}()

	waitCh, errCh := r.Client.ContainerWait(ctx, id, container.WaitConditionNextExit)
	if err := r.Client.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		out.Error(fmt.Sprintf("%s failed: %v", description, err))
		return fmt.Errorf("start container: %w", err)
	}
	log.Debug("container started")

	if err := r.streamLogs(ctx, id); err != nil {
		log.WithError(err).Warn("stream container logs")
	}

	select {
	case resp := <-waitCh:
		if resp.Error != nil {
			out.Error(fmt.Sprintf("%s failed: %s", description, resp.Error.Message))
			return fmt.Errorf("wait container: %s", resp.Error.Message)
		}
		if resp.StatusCode != 0 {
			exitErr := &runner.ExitError{Description: description, Code: int(resp.StatusCode)}
			out.Error(exitErr.Error())
			return exitErr
		}
		return nil
	case err := <-errCh:
		out.Error(fmt.Sprintf("%s failed: %v", description, err))
		return fmt.Errorf("wait container: %w", err)
	}
}

func (r Runner) validate() error {
	if r.Client == nil {
		return errDockerClientNil
	}
	if strings.TrimSpace(r.Image) == "" {
		return errImageRequired
	}
	if strings.TrimSpace(r.HostDir) == "" {
		return errHostDirRequired
	}
	return nil
}

func (r Runner) pull(ctx context.Context) error {
	reader, err := r.Client.ImagePull(ctx, r.Image, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()
	// The pull only completes once the progress stream is drained.
	_, err = io.Copy(io.Discard, reader)
	return err
}

func (r Runner) containerConfig(args []string) *container.Config {
	cfg := &container.Config{
		Image:      r.Image,
		Cmd:        args,
		WorkingDir: meta.ContainerProjectDir,
	}
	if runtime.GOOS == "linux" {
		cfg.User = fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid())
	}
	return cfg
}

func (r Runner) hostConfig() *container.HostConfig {
	return &container.HostConfig{
		Mounts: []mount.Mount{{
			Type:   mount.TypeBind,
			Source: r.HostDir,
			Target: meta.ContainerProjectDir,
		}},
	}
}

// containerArgs rewrites absolute host paths under HostDir to their mount path.
// Any other absolute path after the command is rejected.
func (r Runner) containerArgs(argv []string) ([]string, error) {
	args := make([]string, len(argv))
	for i, arg := range argv {
		args[i] = arg
		if !filepath.IsAbs(arg) {
			continue
		}
		rel, ok := MountRel(r.HostDir, arg)
		if !ok {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("%w: %s (mount %s)", ErrOutsideMount, arg, r.HostDir)
		}
		args[i] = meta.ContainerProjectDir + "/" + filepath.ToSlash(rel)
	}
	return args, nil
}

// MountRel returns path relative to hostDir, or false when path is not
// inside hostDir.
func MountRel(hostDir, path string) (string, bool) {
	rel, err := filepath.Rel(hostDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

func (r Runner) streamLogs(ctx context.Context, id string) error {
	logs, err := r.Client.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return err
	}
	defer logs.Close()

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	_, err = stdcopy.StdCopy(stdout, stderr, logs)
	return err
}
