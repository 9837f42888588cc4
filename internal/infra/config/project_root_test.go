// Where: internal/infra/config/project_root_test.go
// What: Tests for project root discovery.
// Why: Keep relative deploy paths anchored to the game project.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poruru/itchdeploy/internal/meta"
)

func makeProject(t *testing.T, base, name, marker string) string {
	t.Helper()
	root := filepath.Join(base, name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("create project dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, marker), []byte(""), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	return root
}

func TestResolveProjectRootSearchesUpward(t *testing.T) {
	root := makeProject(t, t.TempDir(), "game", ProjectMarker)
	startDir := filepath.Join(root, "scenes", "levels")
	if err := os.MkdirAll(startDir, 0o755); err != nil {
		t.Fatalf("create start dir: %v", err)
	}

	got, err := ResolveProjectRoot(startDir)
	if err != nil {
		t.Fatalf("resolve project root: %v", err)
	}
	if got != root {
		t.Fatalf("expected %q, got %q", root, got)
	}
}

func TestResolveProjectRootAcceptsConfigMarker(t *testing.T) {
	root := makeProject(t, t.TempDir(), "game", meta.ConfigFile)
	got, err := ResolveProjectRoot(root)
	if err != nil {
		t.Fatalf("resolve project root: %v", err)
	}
	if got != root {
		t.Fatalf("expected %q, got %q", root, got)
	}
	if DiscoverConfigFile(root) != filepath.Join(root, meta.ConfigFile) {
		t.Fatalf("expected config file to be discovered")
	}
}

func TestResolveProjectRootFallsBackToStartDir(t *testing.T) {
	start := t.TempDir()
	got, err := ResolveProjectRoot(start)
	if err != nil {
		t.Fatalf("resolve project root: %v", err)
	}
	abs, _ := filepath.Abs(start)
	if got != abs && !isAncestorMarked(got) {
		t.Fatalf("expected fallback to %q, got %q", abs, got)
	}
	if DiscoverConfigFile(start) != "" {
		t.Fatalf("expected no config file in empty dir")
	}
}

func isAncestorMarked(dir string) bool {
	_, errProject := os.Stat(filepath.Join(dir, ProjectMarker))
	_, errConfig := os.Stat(filepath.Join(dir, meta.ConfigFile))
	return errProject == nil || errConfig == nil
}
