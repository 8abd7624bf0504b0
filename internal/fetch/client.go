package fetch

import (
	"context"
	"time"
)

// Client bundles the two fetch paths behind one surface: yt-dlp extraction
// for video-hosting pages and direct HTTP download for raw media URLs.
type Client struct {
	ytdlp *YtDlp
	http  *HTTPDownloader
}

// NewClient constructs a fetch client.
func NewClient(ytdlp *YtDlp, timeout time.Duration) *Client {
	if ytdlp == nil {
		ytdlp = NewYtDlp()
	}
	return &Client{
		ytdlp: ytdlp,
		http:  NewHTTPDownloader(timeout),
	}
}

// FetchPage extracts an audio stream from a video-hosting page URL.
func (c *Client) FetchPage(ctx context.Context, url, destDir string) (string, error) {
	return c.ytdlp.ExtractAudio(ctx, url, destDir)
}

// FetchDirect downloads a raw media URL.
func (c *Client) FetchDirect(ctx context.Context, url, destDir string) (string, error) {
	return c.http.Download(ctx, url, destDir)
}
