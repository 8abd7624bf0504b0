package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateDownloads(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if c.Whisper.Root == "" {
		return errors.New("whisper.root must be set (set STAI_WHISPER_HOME or edit the config file)")
	}
	return nil
}

func (c *Config) validateDownloads() error {
	if c.Downloads.TimeoutSeconds <= 0 {
		return errors.New("downloads.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
