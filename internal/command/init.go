// Where: internal/command/init.go
// What: init command adapter.
// Why: Give new projects an editable config with every default spelled out.
package command

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/itchdeploy/internal/infra/config"
	"github.com/poruru/itchdeploy/internal/meta"
)

var errConfigExists = errors.New("config file already exists (use --force to overwrite)")

// InitCmd writes the default configuration.
type InitCmd struct {
	Force bool `help:"Overwrite an existing config file"`
}

func runInit(s session) int {
	path := strings.TrimSpace(s.cli.Config)
	if path == "" {
		root, err := s.deps.ProjectResolver("")
		if err != nil {
			return s.fail(fmt.Errorf("resolve project root: %w", err))
		}
		path = filepath.Join(root, meta.ConfigFile)
	}
	if _, err := os.Stat(path); err == nil && !s.cli.Init.Force {
		return s.fail(fmt.Errorf("%w: %s", errConfigExists, path))
	}
	if err := config.SaveFile(path, config.Default()); err != nil {
		return s.fail(err)
	}
	s.ui.Success("Wrote " + path)
	return 0
}
