// Where: cmd/itchdeploy/cli_test.go
// What: Tests for CLI dependency wiring.
// Why: The docker client must stay lazy so deploys without an image never need a daemon.
package main

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/poruru/itchdeploy/internal/infra/container"
)

type closingDocker struct {
	container.DockerAPI
	closed bool
}

func (c *closingDocker) Close() error {
	c.closed = true
	return nil
}

func stubDockerClient(t *testing.T, fn func() (container.DockerAPI, error)) {
	t.Helper()
	previous := newDockerClient
	newDockerClient = fn
	t.Cleanup(func() { newDockerClient = previous })
}

func TestBuildDependenciesDoesNotDialDocker(t *testing.T) {
	calls := 0
	stubDockerClient(t, func() (container.DockerAPI, error) {
		calls++
		return &closingDocker{}, nil
	})

	deps, closer := buildDependencies(context.Background())
	if deps.Context == nil || deps.Deploy.DockerClient == nil {
		t.Fatalf("expected context and docker factory to be wired")
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if calls != 0 {
		t.Fatalf("docker client created eagerly")
	}
}

func TestLazyDockerCachesAndCloses(t *testing.T) {
	client := &closingDocker{}
	calls := 0
	stubDockerClient(t, func() (container.DockerAPI, error) {
		calls++
		return client, nil
	})

	deps, closer := buildDependencies(context.Background())
	for i := 0; i < 2; i++ {
		if _, err := deps.Deploy.DockerClient(); err != nil {
			t.Fatalf("docker client: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one client, got %d", calls)
	}
	if err := closer.Close(); err != nil || !client.closed {
		t.Fatalf("expected client to be closed, err=%v", err)
	}
}

func TestLazyDockerPropagatesError(t *testing.T) {
	stubDockerClient(t, func() (container.DockerAPI, error) {
		return nil, errors.New("no daemon")
	})
	docker := &lazyDocker{}
	if _, err := docker.get(); err == nil {
		t.Fatalf("expected error")
	}
	var _ io.Closer = docker
	if err := docker.Close(); err != nil {
		t.Fatalf("close without client: %v", err)
	}
}
