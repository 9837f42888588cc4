// Where: internal/command/workflow.go
// What: Workflow wiring for command handlers.
// Why: Build the real locator, runners, and AWS adapters from injected overrides.
package command

import (
	"context"

	"github.com/poruru/itchdeploy/internal/constants"
	"github.com/poruru/itchdeploy/internal/infra/awsclient"
	"github.com/poruru/itchdeploy/internal/infra/config"
	"github.com/poruru/itchdeploy/internal/infra/container"
	"github.com/poruru/itchdeploy/internal/infra/ledger"
	"github.com/poruru/itchdeploy/internal/infra/mirror"
	"github.com/poruru/itchdeploy/internal/infra/runner"
	"github.com/poruru/itchdeploy/internal/infra/toolpath"
	"github.com/poruru/itchdeploy/internal/usecase/deploy"
)

func (s session) workflow(root string) deploy.Workflow {
	d := s.deps.Deploy
	wf := deploy.Workflow{
		GOOS: d.GOOS,
		Locator: toolpath.Locator{
			LookPath: d.LookPath,
			Stat:     d.Stat,
			Logger:   s.logger,
		},
		Candidates: d.Candidates,
		Downloader: d.Downloader,
		Runner:     d.Runner,
		Container:  s.containerFactory(),
		Mirror:     d.Mirror,
		Ledger:     d.Ledger,
		UI:         s.ui,
		Logger:     s.logger,
		NewRunID:   d.NewRunID,
	}
	if wf.Runner == nil {
		wf.Runner = runner.Exec{
			Dir:    root,
			Stdout: s.deps.Out,
			Stderr: s.deps.ErrOut,
			UI:     s.ui,
			Logger: s.logger,
		}
	}
	if wf.Mirror == nil {
		wf.Mirror = s.s3Mirror
	}
	if wf.Ledger == nil {
		wf.Ledger = s.dynamoLedger
	}
	return wf
}

func (s session) containerFactory() deploy.ContainerFactory {
	newClient := s.deps.Deploy.DockerClient
	if newClient == nil {
		newClient = container.NewDockerClient
	}
	return func(image, hostDir string) (runner.CommandRunner, error) {
		client, err := newClient()
		if err != nil {
			return nil, err
		}
		return container.Runner{
			Client:  client,
			Image:   image,
			HostDir: hostDir,
			Stdout:  s.deps.Out,
			Stderr:  s.deps.ErrOut,
			UI:      s.ui,
			Logger:  s.logger,
		}, nil
	}
}

// s3Mirror reads mirror credentials from the environment only; they never live
// in the config file.
func (s session) s3Mirror(ctx context.Context, cfg config.Mirror) (deploy.BuildMirror, error) {
	accessKey, _ := s.deps.LookupEnv(constants.EnvMirrorAccessKey)
	secretKey, _ := s.deps.LookupEnv(constants.EnvMirrorSecretKey)
	putter, err := mirror.NewS3Putter(ctx, awsclient.Options{
		Region:    cfg.Region,
		Endpoint:  cfg.Endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Lookup:    s.deps.LookupEnv,
	})
	if err != nil {
		return nil, err
	}
	return mirror.Mirror{
		Client: putter,
		Bucket: cfg.Bucket,
		Prefix: cfg.Prefix,
		UI:     s.ui,
		Logger: s.logger,
	}, nil
}

func (s session) dynamoLedger(ctx context.Context, cfg config.Ledger) (ledger.Writer, error) {
	table, err := ledger.NewTable(ctx, cfg.Table, awsclient.Options{
		Region:   cfg.Region,
		Endpoint: cfg.Endpoint,
		Lookup:   s.deps.LookupEnv,
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}
