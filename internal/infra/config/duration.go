// Where: internal/infra/config/duration.go
// What: Timeout decoding for config files and env overrides.
// Why: Accept both Go duration strings and bare integer seconds.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseDuration reads "90s", "2m30s", or a bare integer number of seconds.
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(value)
}

// UnmarshalYAML decodes each timeout with ParseDuration. Absent keys keep
// their current value.
func (t *Timeouts) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Download *yaml.Node `yaml:"download"`
		Export   *yaml.Node `yaml:"export"`
		Push     *yaml.Node `yaml:"push"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	fields := []struct {
		name   string
		node   *yaml.Node
		target *time.Duration
	}{
		{"download", raw.Download, &t.Download},
		{"export", raw.Export, &t.Export},
		{"push", raw.Push, &t.Push},
	}
	for _, field := range fields {
		if field.node == nil {
			continue
		}
		parsed, err := ParseDuration(field.node.Value)
		if err != nil {
			return fmt.Errorf("line %d: timeouts.%s: %w", field.node.Line, field.name, err)
		}
		*field.target = parsed
	}
	return nil
}

// MarshalYAML writes non-zero timeouts as duration strings.
func (t Timeouts) MarshalYAML() (any, error) {
	out := map[string]string{}
	if t.Download != 0 {
		out["download"] = t.Download.String()
	}
	if t.Export != 0 {
		out["export"] = t.Export.String()
	}
	if t.Push != 0 {
		out["push"] = t.Push.String()
	}
	return out, nil
}
