// Where: internal/infra/config/config.go
// What: Deploy configuration model, defaults, and file load/save.
// Why: Replace compiled-in deploy constants with one explicit structure.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poruru/itchdeploy/internal/domain/platform"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAccount        = "ranamzes"
	DefaultProject        = "testdev"
	DefaultChannel        = "html5"
	DefaultExportPreset   = "Web"
	DefaultExportDir      = ".export/web"
	DefaultExportFile     = "index.html"
	DefaultUploaderDir    = "scripts/tools/butler"
	DefaultUploaderVer    = "LATEST"
	DefaultUploaderURL    = "https://broth.itch.ovh/{{ .Tool }}/{{ .OS }}-{{ .Arch }}/{{ .Version }}/archive/default"
	DefaultMirrorPrefix   = "builds"
	currentConfigVersion  = 1
	configFilePermissions = 0o644
)

var (
	errConfigPathRequired = errors.New("config path is required")
	errFieldRequired      = errors.New("field is required")
	errNegativeTimeout    = errors.New("timeout must not be negative")
)

// Deploy is the full configuration of one deploy run.
type Deploy struct {
	Version  int      `yaml:"version"`
	Account  string   `yaml:"account"`
	Project  string   `yaml:"project"`
	Channel  string   `yaml:"channel"`
	Export   Export   `yaml:"export"`
	Engine   Engine   `yaml:"engine"`
	Uploader Uploader `yaml:"uploader"`
	Timeouts Timeouts `yaml:"timeouts,omitempty"`
	Mirror   Mirror   `yaml:"mirror,omitempty"`
	Ledger   Ledger   `yaml:"ledger,omitempty"`
}

// Export describes the engine export preset and its output location.
type Export struct {
	Preset string `yaml:"preset"`
	Dir    string `yaml:"dir"`
	File   string `yaml:"file"`
}

// Engine describes how the game engine binary is found.
// A non-empty Image runs the export inside that container image instead.
type Engine struct {
	Name       string   `yaml:"name"`
	Candidates []string `yaml:"candidates,omitempty"`
	Image      string   `yaml:"image,omitempty"`
}

// Uploader describes how the distribution uploader is found or bootstrapped.
type Uploader struct {
	Name       string   `yaml:"name"`
	Version    string   `yaml:"version"`
	Dir        string   `yaml:"dir"`
	URL        string   `yaml:"url"`
	Candidates []string `yaml:"candidates,omitempty"`
}

// Timeouts bound the blocking steps. Zero means no limit.
type Timeouts struct {
	Download time.Duration `yaml:"download,omitempty"`
	Export   time.Duration `yaml:"export,omitempty"`
	Push     time.Duration `yaml:"push,omitempty"`
}

// Mirror uploads the export directory to S3 after a successful push.
type Mirror struct {
	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Enabled reports whether a bucket is configured.
func (m Mirror) Enabled() bool {
	return strings.TrimSpace(m.Bucket) != ""
}

// Ledger records successful runs in a DynamoDB table.
type Ledger struct {
	Table    string `yaml:"table,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Enabled reports whether a table is configured.
func (l Ledger) Enabled() bool {
	return strings.TrimSpace(l.Table) != ""
}

// Default returns the configuration used when nothing is overridden.
func Default() Deploy {
	return Deploy{
		Version: currentConfigVersion,
		Account: DefaultAccount,
		Project: DefaultProject,
		Channel: DefaultChannel,
		Export: Export{
			Preset: DefaultExportPreset,
			Dir:    DefaultExportDir,
			File:   DefaultExportFile,
		},
		Engine: Engine{
			Name: platform.ToolEngine,
		},
		Uploader: Uploader{
			Name:    platform.ToolUploader,
			Version: DefaultUploaderVer,
			Dir:     DefaultUploaderDir,
			URL:     DefaultUploaderURL,
		},
		Mirror: Mirror{
			Prefix: DefaultMirrorPrefix,
		},
	}
}

// Target returns the uploader push target "<account>/<project>:<channel>".
func (d Deploy) Target() string {
	return fmt.Sprintf("%s/%s:%s", d.Account, d.Project, d.Channel)
}

// OutputPath returns the engine export output file path.
func (d Deploy) OutputPath() string {
	return filepath.Join(d.Export.Dir, d.Export.File)
}

// Validate checks that every field the workflow depends on is set.
func (d Deploy) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"account", d.Account},
		{"project", d.Project},
		{"channel", d.Channel},
		{"export.preset", d.Export.Preset},
		{"export.dir", d.Export.Dir},
		{"export.file", d.Export.File},
		{"engine.name", d.Engine.Name},
		{"uploader.name", d.Uploader.Name},
		{"uploader.version", d.Uploader.Version},
		{"uploader.dir", d.Uploader.Dir},
		{"uploader.url", d.Uploader.URL},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s", errFieldRequired, field.name)
		}
	}
	timeouts := map[string]time.Duration{
		"timeouts.download": d.Timeouts.Download,
		"timeouts.export":   d.Timeouts.Export,
		"timeouts.push":     d.Timeouts.Push,
	}
	for name, value := range timeouts {
		if value < 0 {
			return fmt.Errorf("%w: %s=%s", errNegativeTimeout, name, value)
		}
	}
	return nil
}

// LoadFile reads a config file on top of base. Fields absent from the file
// keep their base value.
func LoadFile(path string, base Deploy) (Deploy, error) {
	if strings.TrimSpace(path) == "" {
		return Deploy{}, errConfigPathRequired
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return Deploy{}, fmt.Errorf("read config: %w", err)
	}
	if err := validateDocument(payload); err != nil {
		return Deploy{}, fmt.Errorf("validate config %s: %w", path, err)
	}

	cfg := base
	decoder := yaml.NewDecoder(bytes.NewReader(payload))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return Deploy{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// SaveFile writes cfg to path, creating parent directories.
func SaveFile(path string, cfg Deploy) error {
	if strings.TrimSpace(path) == "" {
		return errConfigPathRequired
	}
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, payload, configFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
