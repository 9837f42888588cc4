// Where: internal/usecase/deploy/workflow_test.go
// What: Tests for the deploy workflow sequence.
// Why: Lock step order, failure kinds, and the no-network guarantee.
package deploy

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poruru/itchdeploy/internal/domain/platform"
	"github.com/poruru/itchdeploy/internal/infra/config"
	"github.com/poruru/itchdeploy/internal/infra/container"
	"github.com/poruru/itchdeploy/internal/infra/ledger"
	"github.com/poruru/itchdeploy/internal/infra/mirror"
	"github.com/poruru/itchdeploy/internal/infra/runner"
	"github.com/poruru/itchdeploy/internal/infra/ui"
)

type fakeLocator struct {
	found map[string]string
	calls []string
}

func (f *fakeLocator) Find(tool string, _ []string) (string, bool) {
	f.calls = append(f.calls, tool)
	path, ok := f.found[tool]
	return path, ok
}

type runCall struct {
	description string
	argv        []string
}

type fakeRunner struct {
	calls  []runCall
	failOn string
}

func (f *fakeRunner) Run(_ context.Context, description string, argv []string) error {
	f.calls = append(f.calls, runCall{description: description, argv: append([]string(nil), argv...)})
	if f.failOn != "" && strings.Contains(description, f.failOn) {
		return &runner.ExitError{Description: description, Code: 2}
	}
	return nil
}

type fakeDownloader struct {
	calls   int
	payload []byte
	err     error
}

func (f *fakeDownloader) Download(_ context.Context, _ string, dest string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.payload)), os.WriteFile(dest, f.payload, 0o644)
}

type fakeMirror struct {
	dir   string
	runID string
	err   error
}

func (f *fakeMirror) Upload(_ context.Context, dir, runID string) (mirror.Summary, error) {
	f.dir, f.runID = dir, runID
	return mirror.Summary{Objects: 1}, f.err
}

type fakeLedger struct {
	records []ledger.Record
	err     error
}

func (f *fakeLedger) Put(_ context.Context, record ledger.Record) error {
	f.records = append(f.records, record)
	return f.err
}

func uploaderZip(t *testing.T, name string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entry, err := writer.Create(name)
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := entry.Write([]byte("#!/bin/sh\n")); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func newWorkflow(locator *fakeLocator, run *fakeRunner, downloader *fakeDownloader, out *bytes.Buffer) Workflow {
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return Workflow{
		GOOS:       "linux",
		Locator:    locator,
		Candidates: platform.StaticCandidates{},
		Downloader: downloader,
		Runner:     run,
		UI:         ui.NewDeployUI(out, false),
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
		NewRunID: func() string { return "run-1" },
	}
}

func TestRunEngineMissingStopsBeforeNetwork(t *testing.T) {
	var out bytes.Buffer
	locator := &fakeLocator{found: map[string]string{"butler": "/opt/butler"}}
	run := &fakeRunner{}
	downloader := &fakeDownloader{}
	wf := newWorkflow(locator, run, downloader, &out)

	_, err := wf.Run(context.Background(), Request{Config: config.Default(), Root: t.TempDir()})
	if !errors.Is(err, ErrEngineNotFound) || KindOf(err) != KindToolNotFound {
		t.Fatalf("expected engine not found, got %v", err)
	}
	if downloader.calls != 0 || len(run.calls) != 0 {
		t.Fatalf("expected no side effects, downloads=%d runs=%d", downloader.calls, len(run.calls))
	}
	if !strings.Contains(out.String(), "Godot Engine not found!") || !strings.Contains(out.String(), "godotengine.org/download") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunBootstrapsUploaderAndDeploys(t *testing.T) {
	var out bytes.Buffer
	root := t.TempDir()
	locator := &fakeLocator{found: map[string]string{"godot": "/usr/bin/godot"}}
	run := &fakeRunner{}
	downloader := &fakeDownloader{payload: uploaderZip(t, "butler")}
	wf := newWorkflow(locator, run, downloader, &out)

	result, err := wf.Run(context.Background(), Request{Config: config.Default(), Root: root})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Bootstrapped || downloader.calls != 1 {
		t.Fatalf("expected bootstrap, got %#v", result)
	}
	wantUploader := filepath.Join(root, "scripts", "tools", "butler", "butler")
	if result.UploaderPath != wantUploader {
		t.Fatalf("uploader path = %q, want %q", result.UploaderPath, wantUploader)
	}
	exportDir := filepath.Join(root, ".export", "web")
	if info, err := os.Stat(exportDir); err != nil || !info.IsDir() {
		t.Fatalf("export dir not created: %v", err)
	}

	if len(run.calls) != 2 {
		t.Fatalf("expected export and push, got %#v", run.calls)
	}
	export := run.calls[0].argv
	wantExport := []string{"/usr/bin/godot", "--headless", "--export-release", "Web", filepath.Join(exportDir, "index.html")}
	if strings.Join(export, " ") != strings.Join(wantExport, " ") {
		t.Fatalf("export argv = %v, want %v", export, wantExport)
	}
	push := run.calls[1].argv
	wantPush := []string{wantUploader, "push", exportDir, "ranamzes/testdev:html5"}
	if strings.Join(push, " ") != strings.Join(wantPush, " ") {
		t.Fatalf("push argv = %v, want %v", push, wantPush)
	}
	if !strings.Contains(out.String(), "Deployment Complete!") {
		t.Fatalf("missing completion message in %q", out.String())
	}
}

func TestRunBootstrapFailure(t *testing.T) {
	var out bytes.Buffer
	locator := &fakeLocator{found: map[string]string{"godot": "/usr/bin/godot"}}
	run := &fakeRunner{}
	downloader := &fakeDownloader{err: errors.New("connection refused")}
	wf := newWorkflow(locator, run, downloader, &out)

	_, err := wf.Run(context.Background(), Request{Config: config.Default(), Root: t.TempDir()})
	if KindOf(err) != KindBootstrap {
		t.Fatalf("expected bootstrap failure, got %v", err)
	}
	if len(run.calls) != 0 {
		t.Fatalf("commands ran after bootstrap failure: %#v", run.calls)
	}
	if !strings.Contains(out.String(), "itch.io/docs/butler/installing.html") {
		t.Fatalf("missing manual install hint in %q", out.String())
	}
}

func TestRunExportFailureSkipsPush(t *testing.T) {
	var out bytes.Buffer
	locator := &fakeLocator{found: map[string]string{"godot": "/usr/bin/godot", "butler": "/opt/butler"}}
	run := &fakeRunner{failOn: "Export"}
	wf := newWorkflow(locator, run, &fakeDownloader{}, &out)

	_, err := wf.Run(context.Background(), Request{Config: config.Default(), Root: t.TempDir()})
	if KindOf(err) != KindCommand || runner.ExitCode(err) != 2 {
		t.Fatalf("expected command failure with code 2, got %v", err)
	}
	if len(run.calls) != 1 {
		t.Fatalf("push ran after export failure: %#v", run.calls)
	}
}

func TestRunPushFailure(t *testing.T) {
	var out bytes.Buffer
	locator := &fakeLocator{found: map[string]string{"godot": "/usr/bin/godot", "butler": "/opt/butler"}}
	run := &fakeRunner{failOn: "Push"}
	wf := newWorkflow(locator, run, &fakeDownloader{}, &out)

	_, err := wf.Run(context.Background(), Request{Config: config.Default(), Root: t.TempDir()})
	if KindOf(err) != KindCommand {
		t.Fatalf("expected command failure, got %v", err)
	}
	if strings.Contains(out.String(), "Deployment Complete!") {
		t.Fatalf("completion printed after failure")
	}
}

func TestRunMirrorsAndRecords(t *testing.T) {
	var out bytes.Buffer
	root := t.TempDir()
	locator := &fakeLocator{found: map[string]string{"godot": "/usr/bin/godot", "butler": "/opt/butler"}}
	wf := newWorkflow(locator, &fakeRunner{}, &fakeDownloader{}, &out)
	m := &fakeMirror{}
	l := &fakeLedger{}
	wf.Mirror = func(context.Context, config.Mirror) (BuildMirror, error) { return m, nil }
	wf.Ledger = func(context.Context, config.Ledger) (ledger.Writer, error) { return l, nil }

	cfg := config.Default()
	cfg.Mirror.Bucket = "builds"
	cfg.Ledger.Table = "deploys"
	result, err := wf.Run(context.Background(), Request{Config: cfg, Root: root})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if m.runID != "run-1" || m.dir != filepath.Join(root, ".export", "web") {
		t.Fatalf("unexpected mirror call %#v", m)
	}
	if len(l.records) != 1 {
		t.Fatalf("expected one ledger record, got %d", len(l.records))
	}
	record := l.records[0]
	if record.RunID != "run-1" || record.Channel != "html5" || record.Uploader != "/opt/butler" || record.Bootstrapped {
		t.Fatalf("unexpected record %#v", record)
	}
	if !record.FinishedAt.After(record.StartedAt) || !result.Finished.Equal(record.FinishedAt) {
		t.Fatalf("unexpected timestamps %#v", record)
	}
}

func TestRunMirrorFailureIsFatalLedgerFailureIsNot(t *testing.T) {
	locator := &fakeLocator{found: map[string]string{"godot": "/usr/bin/godot", "butler": "/opt/butler"}}
	cfg := config.Default()
	cfg.Mirror.Bucket = "builds"
	cfg.Ledger.Table = "deploys"

	var out bytes.Buffer
	wf := newWorkflow(locator, &fakeRunner{}, &fakeDownloader{}, &out)
	wf.Mirror = func(context.Context, config.Mirror) (BuildMirror, error) {
		return &fakeMirror{err: errors.New("access denied")}, nil
	}
	if _, err := wf.Run(context.Background(), Request{Config: cfg, Root: t.TempDir()}); KindOf(err) != KindMirror {
		t.Fatalf("expected mirror failure, got %v", err)
	}

	out.Reset()
	cfg.Mirror.Bucket = ""
	wf = newWorkflow(locator, &fakeRunner{}, &fakeDownloader{}, &out)
	wf.Ledger = func(context.Context, config.Ledger) (ledger.Writer, error) {
		return &fakeLedger{err: errors.New("throttled")}, nil
	}
	if _, err := wf.Run(context.Background(), Request{Config: cfg, Root: t.TempDir()}); err != nil {
		t.Fatalf("ledger failure should not fail the run: %v", err)
	}
	if !strings.Contains(out.String(), "Could not record run") {
		t.Fatalf("missing ledger warning in %q", out.String())
	}
}

func TestRunContainerEngine(t *testing.T) {
	var out bytes.Buffer
	root := t.TempDir()
	locator := &fakeLocator{found: map[string]string{"butler": "/opt/butler"}}
	local := &fakeRunner{}
	inImage := &fakeRunner{}
	wf := newWorkflow(locator, local, &fakeDownloader{}, &out)
	var gotImage, gotDir string
	wf.Container = func(image, hostDir string) (runner.CommandRunner, error) {
		gotImage, gotDir = image, hostDir
		return inImage, nil
	}

	cfg := config.Default()
	cfg.Engine.Image = "barichello/godot-ci:4.3"
	if _, err := wf.Run(context.Background(), Request{Config: cfg, Root: root}); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, call := range locator.calls {
		if call == "godot" {
			t.Fatalf("engine should not be located on the host in container mode")
		}
	}
	if gotImage != cfg.Engine.Image || gotDir != root {
		t.Fatalf("unexpected container factory args %q %q", gotImage, gotDir)
	}
	if len(inImage.calls) != 1 || inImage.calls[0].argv[0] != "godot" {
		t.Fatalf("unexpected container calls %#v", inImage.calls)
	}
	if len(local.calls) != 1 || local.calls[0].argv[1] != "push" {
		t.Fatalf("unexpected local calls %#v", local.calls)
	}
}

func TestLocateReportsMissingTools(t *testing.T) {
	wf := Workflow{GOOS: "linux", Locator: &fakeLocator{found: map[string]string{"godot": "/usr/bin/godot"}}, Candidates: platform.StaticCandidates{}}
	tools, err := wf.Locate(Request{Config: config.Default(), Root: t.TempDir()})
	if !errors.Is(err, ErrUploaderNotFound) || errors.Is(err, ErrEngineNotFound) {
		t.Fatalf("expected only uploader missing, got %v", err)
	}
	if tools.Engine != "/usr/bin/godot" || tools.Uploader != "" {
		t.Fatalf("unexpected tools %#v", tools)
	}
}

func TestRunRequiresCollaborators(t *testing.T) {
	if _, err := (Workflow{}).Run(context.Background(), Request{Config: config.Default()}); KindOf(err) != KindConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestCandidatesPutConfigExtrasFirst(t *testing.T) {
	wf := Workflow{GOOS: "linux"}
	got := wf.candidates("butler", []string{"/custom/butler"}, "/cache")
	want := []string{"/custom/butler", filepath.Join("/cache", "butler"), "~/.config/itch/bin/butler"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
}

type statLocator struct{}

func (statLocator) Find(_ string, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

func TestRunAnchorsRelativeCandidatesAtRoot(t *testing.T) {
	root := t.TempDir()
	t.Chdir(t.TempDir())
	for _, rel := range []string{"tools/godot", "tools/butler"} {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	cfg := config.Default()
	cfg.Engine.Candidates = []string{"tools/godot"}
	cfg.Uploader.Candidates = []string{"tools/butler"}

	var out bytes.Buffer
	run := &fakeRunner{}
	downloader := &fakeDownloader{}
	wf := newWorkflow(nil, run, downloader, &out)
	wf.Locator = statLocator{}

	result, err := wf.Run(context.Background(), Request{Config: cfg, Root: root})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.EnginePath != filepath.Join(root, "tools", "godot") {
		t.Fatalf("engine path = %q", result.EnginePath)
	}
	if result.UploaderPath != filepath.Join(root, "tools", "butler") || downloader.calls != 0 {
		t.Fatalf("uploader path = %q, downloads=%d", result.UploaderPath, downloader.calls)
	}
}

func TestRunContainerRejectsExportDirOutsideRoot(t *testing.T) {
	var out bytes.Buffer
	locator := &fakeLocator{found: map[string]string{"butler": "/opt/butler"}}
	downloader := &fakeDownloader{}
	wf := newWorkflow(locator, &fakeRunner{}, downloader, &out)
	created := false
	wf.Container = func(string, string) (runner.CommandRunner, error) {
		created = true
		return &fakeRunner{}, nil
	}

	cfg := config.Default()
	cfg.Engine.Image = "barichello/godot-ci:4.3"
	cfg.Export.Dir = t.TempDir()
	_, err := wf.Run(context.Background(), Request{Config: cfg, Root: t.TempDir()})
	if KindOf(err) != KindConfig || !errors.Is(err, container.ErrOutsideMount) {
		t.Fatalf("expected outside-mount config error, got %v", err)
	}
	if created || downloader.calls != 0 || len(locator.calls) != 0 {
		t.Fatalf("expected no work before the check, created=%v downloads=%d locates=%v", created, downloader.calls, locator.calls)
	}
}
