package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"stai/internal/services"
)

// Audio downloaded from video-hosting pages is normalized to the format
// whisper.cpp expects: mono 16 kHz WAV.
const (
	extractedAudioName = "audio"
	extractedAudioFile = extractedAudioName + ".wav"
)

// YtDlpOption configures the yt-dlp client.
type YtDlpOption func(*YtDlp)

// WithYtDlpBinary overrides the default binary name.
func WithYtDlpBinary(binary string) YtDlpOption {
	return func(c *YtDlp) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithFFmpegBinary points yt-dlp's post-processing at a specific ffmpeg.
func WithFFmpegBinary(binary string) YtDlpOption {
	return func(c *YtDlp) {
		if binary != "" {
			c.ffmpegBinary = binary
		}
	}
}

// WithRunner sets a custom command runner (for testing).
func WithRunner(runner services.Runner) YtDlpOption {
	return func(c *YtDlp) {
		if runner != nil {
			c.runner = runner
		}
	}
}

// YtDlp wraps the yt-dlp command-line downloader for audio extraction from
// video-hosting pages.
type YtDlp struct {
	binary       string
	ffmpegBinary string
	runner       services.Runner
}

// NewYtDlp constructs a yt-dlp client using defaults.
func NewYtDlp(opts ...YtDlpOption) *YtDlp {
	client := &YtDlp{
		binary: "yt-dlp",
		runner: services.Run,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// ExtractAudio downloads the best audio stream for url and converts it to a
// mono 16 kHz WAV file under destDir. Returns the path to the produced file.
func (c *YtDlp) ExtractAudio(ctx context.Context, url, destDir string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("yt-dlp: url required")
	}
	if destDir == "" {
		return "", fmt.Errorf("yt-dlp: destination directory required")
	}

	outputTemplate := filepath.Join(destDir, extractedAudioName+".%(ext)s")
	args := []string{
		"--no-progress",
		"--no-playlist",
		"-f", "bestaudio",
		"-x",
		"--audio-format", "wav",
		"--postprocessor-args", "ffmpeg:-ar 16000 -ac 1",
		"-o", outputTemplate,
	}
	if c.ffmpegBinary != "" {
		args = append(args, "--ffmpeg-location", c.ffmpegBinary)
	}
	args = append(args, url)

	if _, err := c.runner(ctx, c.binary, args...); err != nil {
		return "", fmt.Errorf("yt-dlp extract %s: %w", url, err)
	}

	produced := filepath.Join(destDir, extractedAudioFile)
	if _, err := os.Stat(produced); err != nil {
		return "", fmt.Errorf("yt-dlp extract %s: expected output %s missing: %w", url, produced, err)
	}
	return produced, nil
}
