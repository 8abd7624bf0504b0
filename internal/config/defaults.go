package config

const (
	defaultStagingDir      = "~/.local/share/stai/staging"
	defaultLogDir          = "~/.local/share/stai/logs"
	defaultHistoryDB       = "~/.local/share/stai/history.db"
	defaultWhisperRoot     = "~/whisper.cpp"
	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultYtDlpBinary     = "yt-dlp"
	defaultDownloadTimeout = 300
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			HistoryDB:  defaultHistoryDB,
		},
		Whisper: Whisper{
			Root: defaultWhisperRoot,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
			YtDlp:   defaultYtDlpBinary,
		},
		Downloads: Downloads{
			TimeoutSeconds: defaultDownloadTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
