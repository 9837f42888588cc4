// Where: internal/domain/platform/platform.go
// What: Host platform detection for tool downloads.
// Why: Map the running OS to the identifiers used by the uploader distribution.
package platform

import "runtime"

const (
	OSWindows = "windows"
	OSMac     = "mac"
	OSLinux   = "linux"

	ArchAMD64 = "amd64"
)

// Info describes the platform/architecture tags and the executable file name
// of a tool on that platform.
type Info struct {
	OS     string
	Arch   string
	Binary string
}

// Windows reports whether the info targets Windows.
func (i Info) Windows() bool {
	return i.OS == OSWindows
}

// Key returns the "<os>-<arch>" pair used in download URLs.
func (i Info) Key() string {
	return i.OS + "-" + i.Arch
}

// Detect maps a GOOS value to platform info for tool.
// macOS always reports amd64; arm64 hosts run it under Rosetta.
// Any OS other than windows and darwin is treated as linux.
func Detect(goos, tool string) Info {
	switch goos {
	case "windows":
		return Info{OS: OSWindows, Arch: ArchAMD64, Binary: tool + ".exe"}
	case "darwin":
		return Info{OS: OSMac, Arch: ArchAMD64, Binary: tool}
	default:
		return Info{OS: OSLinux, Arch: ArchAMD64, Binary: tool}
	}
}

// Current returns Detect for the running process.
func Current(tool string) Info {
	return Detect(runtime.GOOS, tool)
}
