// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep the tool identity and on-disk layout in one place.
package meta

const (
	// Project Identity
	AppName = "itchdeploy"

	// Config discovery
	ConfigFile = "itchdeploy.yaml"
	EnvFile    = ".env"

	// Help links printed next to fatal tool errors.
	EngineDownloadURL   = "https://godotengine.org/download"
	UploaderInstallURL  = "https://itch.io/docs/butler/installing.html"
	ContainerProjectDir = "/project"
)
