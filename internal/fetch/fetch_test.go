package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stai/internal/services"
	"stai/internal/testsupport"
)

func TestHTTPDownloadWritesFile(t *testing.T) {
	payload := []byte("RIFF fake wav payload")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	destDir := t.TempDir()
	downloader := NewHTTPDownloader(5 * time.Second)
	dest, err := downloader.Download(context.Background(), server.URL+"/talk.wav", destDir)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if filepath.Base(dest) != "talk.wav" {
		t.Fatalf("expected name from URL path, got %s", filepath.Base(dest))
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("payload mismatch: %q", data)
	}
}

func TestHTTPDownloadRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	downloader := NewHTTPDownloader(5 * time.Second)
	_, err := downloader.Download(context.Background(), server.URL+"/missing.mp3", t.TempDir())
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status in error, got %q", err.Error())
	}
}

func TestDownloadFileName(t *testing.T) {
	cases := []struct {
		rawURL string
		want   string
	}{
		{rawURL: "https://example.com/media/talk.mp3", want: "talk.mp3"},
		{rawURL: "https://example.com/talk.mp3?token=abc", want: "talk.mp3"},
		{rawURL: "https://example.com/", want: defaultDownloadName},
		{rawURL: "https://example.com", want: defaultDownloadName},
		{rawURL: "https://example.com/a/b/clip.ogg", want: "clip.ogg"},
		{rawURL: "://not-a-url", want: defaultDownloadName},
	}
	for _, tc := range cases {
		if got := downloadFileName(tc.rawURL); got != tc.want {
			t.Fatalf("downloadFileName(%q) = %q, want %q", tc.rawURL, got, tc.want)
		}
	}
}

func TestYtDlpExtractAudioArgs(t *testing.T) {
	destDir := t.TempDir()
	var gotBinary string
	var gotArgs []string
	runner := func(ctx context.Context, binary string, args ...string) (services.RunResult, error) {
		gotBinary = binary
		gotArgs = args
		// Simulate yt-dlp producing the converted file.
		testsupport.WriteFile(t, filepath.Join(destDir, "audio.wav"), 32)
		return services.RunResult{}, nil
	}

	client := NewYtDlp(
		WithYtDlpBinary("/opt/tools/yt-dlp"),
		WithFFmpegBinary("/opt/tools/ffmpeg"),
		WithRunner(runner),
	)
	url := "https://www.youtube.com/watch?v=abc"
	produced, err := client.ExtractAudio(context.Background(), url, destDir)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if produced != filepath.Join(destDir, "audio.wav") {
		t.Fatalf("unexpected produced path %s", produced)
	}
	if gotBinary != "/opt/tools/yt-dlp" {
		t.Fatalf("unexpected binary %s", gotBinary)
	}

	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{
		"--no-playlist",
		"-f bestaudio",
		"--audio-format wav",
		"ffmpeg:-ar 16000 -ac 1",
		"--ffmpeg-location /opt/tools/ffmpeg",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args, got %q", want, joined)
		}
	}
	if gotArgs[len(gotArgs)-1] != url {
		t.Fatalf("expected url as final argument, got %q", gotArgs[len(gotArgs)-1])
	}
}

func TestYtDlpExtractAudioMissingOutput(t *testing.T) {
	runner := func(ctx context.Context, binary string, args ...string) (services.RunResult, error) {
		return services.RunResult{}, nil
	}
	client := NewYtDlp(WithRunner(runner))
	_, err := client.ExtractAudio(context.Background(), "https://youtu.be/abc", t.TempDir())
	if err == nil {
		t.Fatal("expected error when yt-dlp produces no output file")
	}
	if !strings.Contains(err.Error(), "audio.wav") {
		t.Fatalf("expected missing output path in error, got %q", err.Error())
	}
}

func TestClientDispatch(t *testing.T) {
	destDir := t.TempDir()
	runner := func(ctx context.Context, binary string, args ...string) (services.RunResult, error) {
		testsupport.WriteFile(t, filepath.Join(destDir, "audio.wav"), 32)
		return services.RunResult{}, nil
	}
	client := NewClient(NewYtDlp(WithRunner(runner)), time.Second)

	path, err := client.FetchPage(context.Background(), "https://youtu.be/abc", destDir)
	if err != nil {
		t.Fatalf("fetch page: %v", err)
	}
	if filepath.Base(path) != "audio.wav" {
		t.Fatalf("unexpected page fetch result %s", path)
	}

	// FetchDirect against an unroutable address must fail, not hang.
	if _, err := client.FetchDirect(context.Background(), "http://127.0.0.1:1/talk.mp3", destDir); err == nil {
		t.Fatal("expected direct fetch failure")
	}
}
