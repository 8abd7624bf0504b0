package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeWhisper(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeDownloads()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeWhisper() error {
	if strings.TrimSpace(c.Whisper.Root) == "" {
		if value, ok := os.LookupEnv("STAI_WHISPER_HOME"); ok {
			c.Whisper.Root = value
		} else {
			c.Whisper.Root = defaultWhisperRoot
		}
	}
	var err error
	if c.Whisper.Root, err = expandPath(c.Whisper.Root); err != nil {
		return fmt.Errorf("whisper.root: %w", err)
	}
	if strings.TrimSpace(c.Whisper.Binary) != "" {
		if c.Whisper.Binary, err = expandPath(c.Whisper.Binary); err != nil {
			return fmt.Errorf("whisper.binary: %w", err)
		}
	}
	if strings.TrimSpace(c.Whisper.ModelsDir) != "" {
		if c.Whisper.ModelsDir, err = expandPath(c.Whisper.ModelsDir); err != nil {
			return fmt.Errorf("whisper.models_dir: %w", err)
		}
	}
	c.Whisper.DefaultModel = strings.TrimSpace(c.Whisper.DefaultModel)
	return nil
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.Tools.YtDlp) == "" {
		c.Tools.YtDlp = defaultYtDlpBinary
	}
}

func (c *Config) normalizeDownloads() {
	if c.Downloads.TimeoutSeconds <= 0 {
		c.Downloads.TimeoutSeconds = defaultDownloadTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
