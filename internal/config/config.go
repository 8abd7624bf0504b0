package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database locations.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
	OutputDir  string `toml:"output_dir"`
	HistoryDB  string `toml:"history_db"`
}

// Whisper contains the whisper.cpp installation layout.
type Whisper struct {
	// Root is the whisper.cpp checkout containing build/bin and models/.
	Root string `toml:"root"`
	// Binary overrides the transcription binary path. Empty means
	// <root>/build/bin/whisper-cli.
	Binary string `toml:"binary"`
	// ModelsDir overrides the model weight directory. Empty means
	// <root>/models.
	ModelsDir string `toml:"models_dir"`
	// DefaultModel is used when --model is not supplied.
	DefaultModel string `toml:"default_model"`
	// GenerateCoreML runs the CoreML conversion script after a model
	// download (only useful on Apple Silicon builds).
	GenerateCoreML bool `toml:"generate_coreml"`
}

// Tools names the external media binaries stai shells out to.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
	YtDlp   string `toml:"ytdlp"`
}

// Downloads controls remote source fetching behaviour.
type Downloads struct {
	// Keep retains downloaded audio next to the transcript instead of
	// deleting the staging workspace after the run.
	Keep bool `toml:"keep"`
	// TimeoutSeconds bounds a single direct HTTP download.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for stai.
//
// Configuration sections by subsystem:
//   - Paths: staging, log, output, and history database locations
//   - Whisper: whisper.cpp installation layout and default model
//   - Tools: ffmpeg/ffprobe/yt-dlp binary names or paths
//   - Downloads: retention policy and HTTP timeout for remote sources
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Whisper   Whisper   `toml:"whisper"`
	Tools     Tools     `toml:"tools"`
	Downloads Downloads `toml:"downloads"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/stai/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("stai.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories stai writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dbDir := filepath.Dir(c.Paths.HistoryDB); dbDir != "" {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dbDir, err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if err := os.MkdirAll(c.Paths.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", c.Paths.OutputDir, err)
		}
	}
	return nil
}

// WhisperBinary returns the transcription binary path.
func (c *Config) WhisperBinary() string {
	if strings.TrimSpace(c.Whisper.Binary) != "" {
		return c.Whisper.Binary
	}
	return filepath.Join(c.Whisper.Root, "build", "bin", "whisper-cli")
}

// WhisperModelsDir returns the model weight directory.
func (c *Config) WhisperModelsDir() string {
	if strings.TrimSpace(c.Whisper.ModelsDir) != "" {
		return c.Whisper.ModelsDir
	}
	return filepath.Join(c.Whisper.Root, "models")
}

// FFmpegBinary returns the ffmpeg executable name or path.
func (c *Config) FFmpegBinary() string {
	return c.Tools.FFmpeg
}

// FFprobeBinary returns the ffprobe executable name or path.
func (c *Config) FFprobeBinary() string {
	return c.Tools.FFprobe
}

// YtDlpBinary returns the yt-dlp executable name or path.
func (c *Config) YtDlpBinary() string {
	return c.Tools.YtDlp
}

// CreateSample writes the embedded sample configuration to target.
func CreateSample(target string) error {
	if err := os.WriteFile(target, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves ~ prefixes and returns an absolute cleaned path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
