// Where: internal/infra/bootstrap/download.go
// What: HTTP archive download.
// Why: Fetch the uploader archive to disk without leaving half-written files behind.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/poruru/itchdeploy/internal/meta"
	"github.com/poruru/itchdeploy/internal/version"
)

// Downloader fetches url into dest and returns the number of bytes written.
type Downloader interface {
	Download(ctx context.Context, url, dest string) (int64, error)
}

// HTTPDownloader downloads over net/http. A nil Client uses http.DefaultClient.
type HTTPDownloader struct {
	Client *http.Client
}

func (d HTTPDownloader) Download(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", meta.AppName+"/"+version.GetVersion())

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: %s", errUnexpectedCode, resp.Status)
	}

	part := dest + ".part"
	file, err := os.Create(part)
	if err != nil {
		return 0, err
	}
	written, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(part)
		if copyErr != nil {
			return written, copyErr
		}
		return written, closeErr
	}
	if err := os.Rename(part, dest); err != nil {
		_ = os.Remove(part)
		return written, err
	}
	return written, nil
}
