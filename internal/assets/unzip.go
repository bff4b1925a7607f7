package assets

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hack-pad/hackpadfs"
)

// Unzip extracts the archive at zipPath into destDir, keeping its directory structure,
// and returns the extracted file paths. Entries that would land outside destDir are
// skipped.
func Unzip(fsys hackpadfs.FS, zipPath, destDir string) (extracted []string, err error) {
	data, err := hackpadfs.ReadFile(fsys, zipPath)
	if err != nil {
		return nil, fmt.Errorf("assets: unzip: %w", err)
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("assets: unzip: %s: %w", zipPath, err)
	}
	if err := hackpadfs.MkdirAll(fsys, destDir, 0755); err != nil {
		return nil, fmt.Errorf("assets: unzip: %w", err)
	}
	root := path.Clean(destDir)
	for _, f := range r.File {
		dest := path.Join(root, f.Name)
		if !within(root, dest) {
			continue
		}
		if f.FileInfo().IsDir() {
			if err := hackpadfs.MkdirAll(fsys, dest, 0755); err != nil {
				return nil, fmt.Errorf("assets: unzip: %w", err)
			}
			continue
		}
		if err := hackpadfs.MkdirAll(fsys, path.Dir(dest), 0755); err != nil {
			return nil, fmt.Errorf("assets: unzip: %w", err)
		}
		body, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("assets: unzip: %s: %w", f.Name, err)
		}
		if err := hackpadfs.WriteFullFile(fsys, dest, body, 0644); err != nil {
			return nil, fmt.Errorf("assets: unzip: %w", err)
		}
		extracted = append(extracted, dest)
	}
	return extracted, nil
}

func within(root, p string) bool {
	if root == "." {
		return p != ".." && !strings.HasPrefix(p, "../")
	}
	return p == root || strings.HasPrefix(p, root+"/")
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
