// Where: internal/infra/bootstrap/extract.go
// What: Zip extraction into a destination directory.
// Why: Unpack the uploader archive while refusing entries that escape the cache.
package bootstrap

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip extracts every entry of archive into dest and returns the extracted file count.
func ExtractZip(archive, dest string) (int, error) {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range reader.File {
		target, err := entryPath(root, entry.Name)
		if err != nil {
			return count, err
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return count, err
			}
			continue
		}
		if err := extractFile(entry, target); err != nil {
			return count, fmt.Errorf("extract %s: %w", entry.Name, err)
		}
		count++
	}
	return count, nil
}

func entryPath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", errUnsafeEntry, name)
	}
	return target, nil
}

func extractFile(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	mode := entry.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
