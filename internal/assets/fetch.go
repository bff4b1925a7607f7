// Package assets fetches scene assets (environment maps, meshes, textures and zipped
// asset packs) into the workspace.
package assets

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/h2non/filetype"
	"github.com/hack-pad/hackpadfs"
)

const userAgent = "crayscene/1 (+https://github.com/vkoskiv/c-ray)"

// Fetch downloads rawURL into destDir of fsys and returns the saved path. The file name
// comes from Content-Disposition, then the URL path; a missing extension is derived from
// the content. A nil client uses http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, rawURL string, fsys hackpadfs.FS, destDir string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("assets: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("assets: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assets: %s: HTTP %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("assets: %w", err)
	}

	name := filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = filenameFromURL(rawURL)
	}
	name = sanitize(name)
	if path.Ext(name) == "" {
		if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
			name += "." + kind.Extension
		}
	}

	saved := path.Join(destDir, name)
	if err := hackpadfs.MkdirAll(fsys, destDir, 0755); err != nil {
		return "", fmt.Errorf("assets: %w", err)
	}
	if err := hackpadfs.WriteFullFile(fsys, saved, data, 0644); err != nil {
		return "", fmt.Errorf("assets: %w", err)
	}
	return saved, nil
}

// IsZip reports whether data starts like a zip archive.
func IsZip(data []byte) bool {
	return filetype.Is(data, "zip")
}

func filenameFromDisposition(cd string) string {
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	return path.Base(params["filename"])
}

func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return ""
	}
	return base
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

func sanitize(name string) string {
	name = strings.TrimLeft(unsafeChars.ReplaceAllString(name, "_"), ".")
	if name == "" {
		return "download"
	}
	if len(name) > 96 {
		ext := path.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		name = name[:96-len(ext)] + ext
	}
	return name
}
