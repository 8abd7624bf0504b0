package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const defaultDownloadName = "download.bin"

// HTTPDownloader fetches direct media URLs to local files.
type HTTPDownloader struct {
	client *http.Client
}

// NewHTTPDownloader constructs a downloader with the given per-request
// timeout. A zero timeout disables the bound.
func NewHTTPDownloader(timeout time.Duration) *HTTPDownloader {
	return &HTTPDownloader{
		client: &http.Client{Timeout: timeout},
	}
}

// Download fetches rawURL into destDir and returns the local path. The file
// name is derived from the URL path so the media extension survives for
// downstream probing.
func (d *HTTPDownloader) Download(ctx context.Context, rawURL, destDir string) (string, error) {
	if destDir == "" {
		return "", fmt.Errorf("download: destination directory required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("download %s: server responded %s", rawURL, resp.Status)
	}

	dest := filepath.Join(destDir, downloadFileName(rawURL))
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("download %s: create %s: %w", rawURL, dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	return dest, nil
}

func downloadFileName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return defaultDownloadName
	}
	name := path.Base(parsed.Path)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return defaultDownloadName
	}
	// Strip characters that would escape the destination directory.
	name = filepath.Base(name)
	return name
}
