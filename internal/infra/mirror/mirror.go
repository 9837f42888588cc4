// Where: internal/infra/mirror/mirror.go
// What: Upload of the export directory to an S3 bucket.
// Why: Keep a copy of every pushed build outside the distribution platform.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/poruru/itchdeploy/internal/infra/ui"
	"github.com/poruru/itchdeploy/internal/logging"
	"github.com/sirupsen/logrus"
)

var (
	errBucketRequired = errors.New("mirror bucket is required")
	errClientNil      = errors.New("mirror client is nil")
)

// ObjectPutter stores one object.
type ObjectPutter interface {
	PutObject(ctx context.Context, object Object) error
}

// Object is one file to upload.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
	Path        string
}

// Mirror copies a directory tree to Bucket under Prefix/RunID.
type Mirror struct {
	Client ObjectPutter
	Bucket string
	Prefix string
	UI     ui.UserInterface
	Logger logrus.FieldLogger
}

// Summary reports what an upload wrote.
type Summary struct {
	Objects int
	Bytes   int64
	Prefix  string
}

// Upload walks dir and uploads every regular file. It stops at the first failure.
func (m Mirror) Upload(ctx context.Context, dir, runID string) (Summary, error) {
	if strings.TrimSpace(m.Bucket) == "" {
		return Summary{}, errBucketRequired
	}
	if m.Client == nil {
		return Summary{}, errClientNil
	}
	out := ui.OrDiscard(m.UI)
	log := logging.OrDiscard(m.Logger).WithField("bucket", m.Bucket)

	keyPrefix := KeyPrefix(m.Prefix, runID)
	out.Step(fmt.Sprintf("Mirror build to s3://%s/%s", m.Bucket, keyPrefix))

	summary := Summary{Prefix: keyPrefix}
	err := filepath.WalkDir(dir, func(current string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, current)
		if err != nil {
			return err
		}
		object := Object{
			Bucket:      m.Bucket,
			Key:         path.Join(keyPrefix, filepath.ToSlash(rel)),
			ContentType: contentType(current),
			Size:        info.Size(),
			Path:        current,
		}
		if err := m.Client.PutObject(ctx, object); err != nil {
			return fmt.Errorf("put %s: %w", object.Key, err)
		}
		log.WithFields(logrus.Fields{"key": object.Key, "bytes": object.Size}).Debug("mirrored object")
		summary.Objects++
		summary.Bytes += object.Size
		return nil
	})
	if err != nil {
		return summary, err
	}
	out.Info(fmt.Sprintf("Mirrored %d files (%s).", summary.Objects, humanize.Bytes(uint64(summary.Bytes))))
	return summary, nil
}

// KeyPrefix joins the configured prefix and the run id.
func KeyPrefix(prefix, runID string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return runID
	}
	return prefix + "/" + runID
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	if strings.EqualFold(filepath.Ext(name), ".wasm") {
		return "application/wasm"
	}
	return "application/octet-stream"
}

func openObject(object Object) (*os.File, error) {
	return os.Open(object.Path)
}
