// Package envutil provides helper functions for environment variable handling.
package envutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	percentVar = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_()]*)%`)
	dollarVar  = regexp.MustCompile(`\$(?:\{([A-Za-z_][A-Za-z0-9_]*)\}|([A-Za-z_][A-Za-z0-9_]*))`)
)

// ExpandPath expands environment references in a candidate path.
// It understands $VAR, ${VAR}, %VAR% and a leading ~. Unknown variables are
// left verbatim so the resulting path simply fails to exist.
func ExpandPath(path string) string {
	return ExpandPathWith(path, os.LookupEnv, os.UserHomeDir)
}

// ExpandPathWith is ExpandPath with injectable lookups.
func ExpandPathWith(
	path string,
	lookup func(string) (string, bool),
	home func() (string, error),
) string {
	if path == "" {
		return path
	}

	expanded := percentVar.ReplaceAllStringFunc(path, func(match string) string {
		name := match[1 : len(match)-1]
		if value, ok := lookup(name); ok {
			return value
		}
		return match
	})

	expanded = dollarVar.ReplaceAllStringFunc(expanded, func(match string) string {
		groups := dollarVar.FindStringSubmatch(match)
		name := groups[1]
		if name == "" {
			name = groups[2]
		}
		if value, ok := lookup(name); ok {
			return value
		}
		return match
	})

	if expanded == "~" || strings.HasPrefix(expanded, "~/") || strings.HasPrefix(expanded, `~\`) {
		if dir, err := home(); err == nil && dir != "" {
			if expanded == "~" {
				return filepath.Clean(dir)
			}
			return filepath.Join(dir, expanded[2:])
		}
	}
	return expanded
}
