package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"stai/internal/config"
)

// Requirement defines an external dependency stai relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the dependency list for the configured toolchain.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "ffmpeg", Command: cfg.FFmpegBinary(), Description: "Audio extraction for yt-dlp downloads"},
		{Name: "ffprobe", Command: cfg.FFprobeBinary(), Description: "Media probing before transcription"},
		{Name: "yt-dlp", Command: cfg.YtDlpBinary(), Description: "Audio download from video-hosting pages", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckWhisperCLI reports the transcription binary stai will execute.
//
// The binary normally lives inside the whisper.cpp build tree rather than on
// PATH, so the configured path is checked first and PATH lookup is only a
// fallback.
func CheckWhisperCLI(cfg *config.Config) Status {
	result := Status{
		Name:        "whisper-cli",
		Description: "whisper.cpp transcription binary",
	}

	configured := strings.TrimSpace(cfg.WhisperBinary())
	if configured != "" {
		if info, err := os.Stat(configured); err == nil && isExecutable(info) {
			result.Command = configured
			result.Available = true
			return result
		}
	}

	if path, err := exec.LookPath("whisper-cli"); err == nil {
		result.Command = path
		result.Available = true
		return result
	}

	result.Command = configured
	result.Detail = fmt.Sprintf("binary %q not found; build whisper.cpp or set whisper.binary", configured)
	return result
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
