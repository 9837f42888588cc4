// Where: internal/constants/env.go
// What: Environment variable naming constants.
// Why: Centralize environment variable names to avoid typos and inconsistencies.
package constants

const (
	// Deploy target
	EnvAccount = "ITCHDEPLOY_ACCOUNT"
	EnvProject = "ITCHDEPLOY_PROJECT"
	EnvChannel = "ITCHDEPLOY_CHANNEL"

	// Export
	EnvExportPreset = "ITCHDEPLOY_EXPORT_PRESET"
	EnvExportDir    = "ITCHDEPLOY_EXPORT_DIR"
	EnvExportFile   = "ITCHDEPLOY_EXPORT_FILE"

	// Engine
	EnvEngineName  = "ITCHDEPLOY_ENGINE_NAME"
	EnvEngineImage = "ITCHDEPLOY_ENGINE_IMAGE"

	// Uploader
	EnvUploaderName    = "ITCHDEPLOY_UPLOADER_NAME"
	EnvUploaderVersion = "ITCHDEPLOY_UPLOADER_VERSION"
	EnvUploaderDir     = "ITCHDEPLOY_UPLOADER_DIR"
	EnvUploaderURL     = "ITCHDEPLOY_UPLOADER_URL"

	// Timeouts (Go duration syntax or integer seconds, empty or 0 disables)
	EnvTimeoutDownload = "ITCHDEPLOY_TIMEOUT_DOWNLOAD"
	EnvTimeoutExport   = "ITCHDEPLOY_TIMEOUT_EXPORT"
	EnvTimeoutPush     = "ITCHDEPLOY_TIMEOUT_PUSH"

	// Build mirror (S3)
	EnvMirrorBucket    = "ITCHDEPLOY_MIRROR_BUCKET"
	EnvMirrorPrefix    = "ITCHDEPLOY_MIRROR_PREFIX"
	EnvMirrorRegion    = "ITCHDEPLOY_MIRROR_REGION"
	EnvMirrorEndpoint  = "ITCHDEPLOY_MIRROR_ENDPOINT"
	EnvMirrorAccessKey = "ITCHDEPLOY_MIRROR_ACCESS_KEY"
	EnvMirrorSecretKey = "ITCHDEPLOY_MIRROR_SECRET_KEY"

	// Run ledger (DynamoDB)
	EnvLedgerTable    = "ITCHDEPLOY_LEDGER_TABLE"
	EnvLedgerRegion   = "ITCHDEPLOY_LEDGER_REGION"
	EnvLedgerEndpoint = "ITCHDEPLOY_LEDGER_ENDPOINT"

	// Logging
	EnvLogLevel = "ITCHDEPLOY_LOG_LEVEL"
	EnvNoColor  = "NO_COLOR"

	// AWS
	EnvAWSRegion = "AWS_REGION"
)
