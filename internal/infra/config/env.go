// Where: internal/infra/config/env.go
// What: Environment variable overrides for deploy configuration.
// Why: Allow CI to retarget a deploy without editing the config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/poruru/itchdeploy/internal/constants"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(string) (string, bool)

// ApplyEnv overlays non-empty environment variables on cfg.
func ApplyEnv(cfg Deploy, lookup LookupFunc) (Deploy, error) {
	strOverrides := []struct {
		key    string
		target *string
	}{
		{constants.EnvAccount, &cfg.Account},
		{constants.EnvProject, &cfg.Project},
		{constants.EnvChannel, &cfg.Channel},
		{constants.EnvExportPreset, &cfg.Export.Preset},
		{constants.EnvExportDir, &cfg.Export.Dir},
		{constants.EnvExportFile, &cfg.Export.File},
		{constants.EnvEngineName, &cfg.Engine.Name},
		{constants.EnvEngineImage, &cfg.Engine.Image},
		{constants.EnvUploaderName, &cfg.Uploader.Name},
		{constants.EnvUploaderVersion, &cfg.Uploader.Version},
		{constants.EnvUploaderDir, &cfg.Uploader.Dir},
		{constants.EnvUploaderURL, &cfg.Uploader.URL},
		{constants.EnvMirrorBucket, &cfg.Mirror.Bucket},
		{constants.EnvMirrorPrefix, &cfg.Mirror.Prefix},
		{constants.EnvMirrorRegion, &cfg.Mirror.Region},
		{constants.EnvMirrorEndpoint, &cfg.Mirror.Endpoint},
		{constants.EnvLedgerTable, &cfg.Ledger.Table},
		{constants.EnvLedgerRegion, &cfg.Ledger.Region},
		{constants.EnvLedgerEndpoint, &cfg.Ledger.Endpoint},
	}
	for _, entry := range strOverrides {
		if value, ok := lookupTrimmed(lookup, entry.key); ok {
			*entry.target = value
		}
	}

	durOverrides := []struct {
		key    string
		target *time.Duration
	}{
		{constants.EnvTimeoutDownload, &cfg.Timeouts.Download},
		{constants.EnvTimeoutExport, &cfg.Timeouts.Export},
		{constants.EnvTimeoutPush, &cfg.Timeouts.Push},
	}
	for _, entry := range durOverrides {
		value, ok := lookupTrimmed(lookup, entry.key)
		if !ok {
			continue
		}
		parsed, err := ParseDuration(value)
		if err != nil {
			return Deploy{}, fmt.Errorf("parse %s: %w", entry.key, err)
		}
		*entry.target = parsed
	}
	return cfg, nil
}

func lookupTrimmed(lookup LookupFunc, key string) (string, bool) {
	if lookup == nil {
		return "", false
	}
	value, ok := lookup(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}
