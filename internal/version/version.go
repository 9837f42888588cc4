// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Identify the build in `itchdeploy version` output and the download User-Agent.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Version is set at link time with -ldflags "-X .../internal/version.Version=v1.2.3".
var Version string

// GetVersion returns the linked version, or the short VCS revision from build
// info with a "(dirty)" suffix for modified trees, or "dev".
func GetVersion() string {
	if v := strings.TrimSpace(Version); v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	return fromSettings(info.Settings)
}

func fromSettings(settings []debug.BuildSetting) string {
	var revision string
	var modified bool
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
