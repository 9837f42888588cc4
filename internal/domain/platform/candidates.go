// Where: internal/domain/platform/candidates.go
// What: Candidate install locations per tool and platform.
// Why: Keep search locations as data so tests and config can swap them.
package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

const (
	ToolEngine   = "godot"
	ToolUploader = "butler"
)

// CandidateProvider returns the ordered filesystem locations probed for a tool
// after the executable search path misses.
type CandidateProvider interface {
	Candidates(tool string) []string
}

// StaticCandidates is a fixed tool -> candidates table.
type StaticCandidates map[string][]string

func (s StaticCandidates) Candidates(tool string) []string {
	return append([]string(nil), s[tool]...)
}

// ChainCandidates concatenates providers in order.
type ChainCandidates []CandidateProvider

func (c ChainCandidates) Candidates(tool string) []string {
	var out []string
	for _, provider := range c {
		if provider == nil {
			continue
		}
		out = append(out, provider.Candidates(tool)...)
	}
	return out
}

// DefaultCandidates holds the well-known install locations of the engine and
// uploader for one GOOS. BootstrapDir is the local uploader cache, which is
// always probed before any system location.
type DefaultCandidates struct {
	GOOS         string
	BootstrapDir string
}

// NewDefaultCandidates returns DefaultCandidates for the running process.
func NewDefaultCandidates(bootstrapDir string) DefaultCandidates {
	return DefaultCandidates{GOOS: runtime.GOOS, BootstrapDir: bootstrapDir}
}

var engineCandidates = map[string][]string{
	OSWindows: {
		`C:\Program Files\Godot\Godot.exe`,
		`C:\Program Files (x86)\Godot\Godot.exe`,
		`D:\Godot\Godot.exe`,
	},
	OSMac: {
		"/Applications/Godot.app/Contents/MacOS/Godot",
	},
	OSLinux: {
		"/usr/bin/godot",
	},
}

var uploaderCandidates = map[string][]string{
	OSWindows: {
		`%APPDATA%\itch\bin\butler.exe`,
		`C:\deps\butler\butler.exe`,
		`C:\Program Files (x86)\itch\bin\butler.exe`,
		`%USERPROFILE%\Downloads\butler.exe`,
		`%USERPROFILE%\Downloads\butler\butler.exe`,
		`%USERPROFILE%\Documents\butler.exe`,
		`D:\butler\butler.exe`,
	},
	OSMac: {
		"~/.config/itch/bin/butler",
	},
	OSLinux: {
		"~/.config/itch/bin/butler",
	},
}

func (d DefaultCandidates) Candidates(tool string) []string {
	info := Detect(d.GOOS, tool)
	switch strings.ToLower(tool) {
	case ToolEngine:
		return append([]string(nil), engineCandidates[info.OS]...)
	case ToolUploader:
		var out []string
		if dir := strings.TrimSpace(d.BootstrapDir); dir != "" {
			out = append(out, filepath.Join(dir, info.Binary))
		}
		return append(out, uploaderCandidates[info.OS]...)
	default:
		return nil
	}
}
