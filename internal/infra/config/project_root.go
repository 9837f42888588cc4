// Where: internal/infra/config/project_root.go
// What: Project root discovery.
// Why: Resolve relative export and cache paths against the game project.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/itchdeploy/internal/meta"
)

// ProjectMarker is the file the engine keeps at the root of every project.
const ProjectMarker = "project.godot"

// ResolveProjectRoot determines the directory deploy paths are relative to.
// Priority order.
// 1. Upward search from startDir for project.godot or the config file.
// 2. startDir itself.
func ResolveProjectRoot(startDir string) (string, error) {
	start := strings.TrimSpace(startDir)
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		start = wd
	}
	if root, ok := findProjectRoot(start); ok {
		return root, nil
	}
	return filepath.Abs(start)
}

// DiscoverConfigFile returns the config file under root, or "" if none exists.
func DiscoverConfigFile(root string) string {
	path := filepath.Join(root, meta.ConfigFile)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// findProjectRoot searches upward from the given path to find
// a directory containing a project marker.
func findProjectRoot(path string) (string, bool) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	markers := []string{
		ProjectMarker,
		meta.ConfigFile,
	}

	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}
