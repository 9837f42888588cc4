// Where: internal/infra/bootstrap/errors.go
// What: Bootstrap failure kinds.
// Why: Keep each failed step distinguishable without dynamic error creation.
package bootstrap

import "errors"

var (
	ErrDownload      = errors.New("download failed")
	ErrExtract       = errors.New("extract failed")
	ErrBinaryMissing = errors.New("binary missing after extraction")
	ErrBadURL        = errors.New("invalid download url template")

	errUnsafeEntry    = errors.New("archive entry escapes destination")
	errUnexpectedCode = errors.New("unexpected http status")
	errDirRequired    = errors.New("bootstrap dir is required")
)
