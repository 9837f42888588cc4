// Where: internal/infra/config/resolve.go
// What: Layered config resolution.
// Why: Apply defaults, file, environment, and flags in one fixed order.
package config

import "strings"

// Overrides carries values supplied on the command line. Empty fields are ignored.
type Overrides struct {
	Account         string
	Project         string
	Channel         string
	ExportPreset    string
	ExportDir       string
	ExportFile      string
	UploaderVersion string
	EngineImage     string
}

// Resolve builds the effective configuration.
// Order: defaults, config file (if path is non-empty), environment, overrides.
func Resolve(path string, lookup LookupFunc, overrides Overrides) (Deploy, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		loaded, err := LoadFile(path, cfg)
		if err != nil {
			return Deploy{}, err
		}
		cfg = loaded
	}

	cfg, err := ApplyEnv(cfg, lookup)
	if err != nil {
		return Deploy{}, err
	}
	cfg = overrides.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return Deploy{}, err
	}
	return cfg, nil
}

func (o Overrides) apply(cfg Deploy) Deploy {
	set := func(target *string, value string) {
		if value = strings.TrimSpace(value); value != "" {
			*target = value
		}
	}
	set(&cfg.Account, o.Account)
	set(&cfg.Project, o.Project)
	set(&cfg.Channel, o.Channel)
	set(&cfg.Export.Preset, o.ExportPreset)
	set(&cfg.Export.Dir, o.ExportDir)
	set(&cfg.Export.File, o.ExportFile)
	set(&cfg.Uploader.Version, o.UploaderVersion)
	set(&cfg.Engine.Image, o.EngineImage)
	return cfg
}
