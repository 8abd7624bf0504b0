package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"stai/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "history.db")
	cfgVal.Whisper.Root = filepath.Join(base, "whisper.cpp")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}

// WithKeepDownloads enables download retention on the test config.
func WithKeepDownloads() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Downloads.Keep = true
	}
}

// WithWhisperTree lays out a fake whisper.cpp checkout: a whisper-cli stub
// that emits one transcript line, the model download script with the stock
// model list, and ggml weight stubs for the requested models.
func WithWhisperTree(installedModels ...string) ConfigOption {
	return func(b *configBuilder) {
		root := b.cfg.Whisper.Root
		binDir := filepath.Join(root, "build", "bin")
		modelsDir := filepath.Join(root, "models")
		for _, dir := range []string{binDir, modelsDir} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				b.t.Fatalf("mkdir %s: %v", dir, err)
			}
		}

		WriteScript(b.t, filepath.Join(binDir, "whisper-cli"),
			"#!/bin/sh\necho '[00:00:00.000 --> 00:00:02.000]   hello from the stub'\n")

		downloadScript := "#!/bin/sh\n" +
			"models=\"tiny.en\ntiny\nbase.en\nbase\nsmall.en\nsmall\nmedium.en\nmedium\nlarge-v3\nlarge-v3-turbo\"\n" +
			"exit 0\n"
		WriteScript(b.t, filepath.Join(modelsDir, "download-ggml-model.sh"), downloadScript)

		for _, model := range installedModels {
			target := filepath.Join(modelsDir, "ggml-"+model+".bin")
			if err := os.WriteFile(target, []byte("stub weights"), 0o644); err != nil {
				b.t.Fatalf("write model stub %s: %v", target, err)
			}
		}
	}
}

// WithStubbedBinaries writes stub executables for ffmpeg, ffprobe, and
// yt-dlp and points the config's tool paths at them. The ffprobe stub
// reports a single decodable audio stream.
func WithStubbedBinaries() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}

		ffprobeJSON := `{"streams":[{"index":0,"codec_name":"pcm_s16le","codec_type":"audio","sample_rate":"16000","channels":1}],"format":{"nb_streams":1,"duration":"2.0","size":"64044","format_name":"wav"}}`
		WriteScript(b.t, filepath.Join(binDir, "ffprobe"), "#!/bin/sh\necho '"+ffprobeJSON+"'\n")
		WriteScript(b.t, filepath.Join(binDir, "ffmpeg"), "#!/bin/sh\nexit 0\n")
		WriteScript(b.t, filepath.Join(binDir, "yt-dlp"), "#!/bin/sh\nexit 0\n")

		b.cfg.Tools.FFprobe = filepath.Join(binDir, "ffprobe")
		b.cfg.Tools.FFmpeg = filepath.Join(binDir, "ffmpeg")
		b.cfg.Tools.YtDlp = filepath.Join(binDir, "yt-dlp")
	}
}
