// Where: internal/command/test_helpers_test.go
// What: Shared fakes for command tests.
// Why: Drive Run end to end without real tools, network, or cloud services.
package command

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/poruru/itchdeploy/internal/domain/platform"
)

type recordedCommand struct {
	description string
	argv        []string
}

type fakeRunner struct {
	calls []recordedCommand
	err   error
}

func (f *fakeRunner) Run(_ context.Context, description string, argv []string) error {
	f.calls = append(f.calls, recordedCommand{description: description, argv: append([]string(nil), argv...)})
	return f.err
}

func lookPathFrom(found map[string]string) func(string) (string, error) {
	return func(name string) (string, error) {
		if path, ok := found[name]; ok {
			return path, nil
		}
		return "", exec.ErrNotFound
	}
}

func envFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

// testDeps returns dependencies rooted at root with no system candidates.
func testDeps(root string, out *bytes.Buffer, found map[string]string, env map[string]string, run *fakeRunner) Dependencies {
	return Dependencies{
		Out:             out,
		ErrOut:          out,
		LookupEnv:       envFrom(env),
		ProjectResolver: func(string) (string, error) { return root, nil },
		Deploy: DeployDeps{
			GOOS:       "linux",
			LookPath:   lookPathFrom(found),
			Candidates: platform.StaticCandidates{},
			Runner:     run,
			NewRunID:   func() string { return "run-test" },
		},
	}
}

// uploaderServer serves a zip containing a single "butler" binary and counts requests.
func uploaderServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entry, err := writer.Create("butler")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := entry.Write([]byte("#!/bin/sh\nexit 0\n")); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	payload := buf.Bytes()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if !strings.HasPrefix(r.URL.Path, "/butler/linux-amd64/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)
	return server
}

var errBoom = errors.New("boom")
