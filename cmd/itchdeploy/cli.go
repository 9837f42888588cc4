// Where: cmd/itchdeploy/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"context"
	"io"
	"os"

	"github.com/poruru/itchdeploy/internal/command"
	"github.com/poruru/itchdeploy/internal/infra/container"
)

var newDockerClient = container.NewDockerClient

// buildDependencies constructs the runtime dependencies of the CLI.
// The docker client is only created when a container engine image is
// configured; the returned closer releases it.
func buildDependencies(ctx context.Context) (command.Dependencies, io.Closer) {
	docker := &lazyDocker{}
	deps := command.Dependencies{
		Out:     os.Stdout,
		ErrOut:  os.Stderr,
		Context: ctx,
		Deploy: command.DeployDeps{
			DockerClient: docker.get,
		},
	}
	return deps, docker
}

type lazyDocker struct {
	client container.DockerAPI
}

func (l *lazyDocker) get() (container.DockerAPI, error) {
	if l.client != nil {
		return l.client, nil
	}
	client, err := newDockerClient()
	if err != nil {
		return nil, err
	}
	l.client = client
	return client, nil
}

// Close closes the docker client if one was created.
func (l *lazyDocker) Close() error {
	if closer, ok := l.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
