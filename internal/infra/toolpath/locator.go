// Where: internal/infra/toolpath/locator.go
// What: Tool discovery over the search path and candidate locations.
// Why: Resolve engine and uploader binaries before anything touches the network.
package toolpath

import (
	"os"
	"os/exec"
	"strings"

	"github.com/poruru/itchdeploy/internal/envutil"
	"github.com/poruru/itchdeploy/internal/logging"
	"github.com/sirupsen/logrus"
)

// Locator finds tools. Nil function fields fall back to the os/exec and os
// implementations, so the zero value is usable.
type Locator struct {
	LookPath func(string) (string, error)
	Stat     func(string) (os.FileInfo, error)
	Expand   func(string) string
	Logger   logrus.FieldLogger
}

// Find returns the first usable path for tool.
// A search-path hit wins over every candidate. Candidates are expanded and
// probed in order. The second result is false when nothing exists.
func (l Locator) Find(tool string, candidates []string) (string, bool) {
	log := logging.OrDiscard(l.Logger).WithField("tool", tool)

	if name := strings.TrimSpace(tool); name != "" {
		if path, err := l.lookPath(name); err == nil && path != "" {
			log.WithField("path", path).Debug("found on search path")
			return path, true
		}
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		expanded := l.expand(candidate)
		if _, err := l.stat(expanded); err == nil {
			log.WithField("path", expanded).Debug("found candidate")
			return expanded, true
		}
		log.WithField("path", expanded).Debug("candidate missing")
	}
	return "", false
}

func (l Locator) lookPath(name string) (string, error) {
	if l.LookPath != nil {
		return l.LookPath(name)
	}
	return exec.LookPath(name)
}

func (l Locator) stat(path string) (os.FileInfo, error) {
	if l.Stat != nil {
		return l.Stat(path)
	}
	return os.Stat(path)
}

func (l Locator) expand(path string) string {
	if l.Expand != nil {
		return l.Expand(path)
	}
	return envutil.ExpandPath(path)
}
