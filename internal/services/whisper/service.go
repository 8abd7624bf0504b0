package whisper

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"stai/internal/config"
	"stai/internal/logging"
	"stai/internal/services"
)

// Service wraps the whisper.cpp transcription binary and its model layout.
type Service struct {
	binary         string
	modelsDir      string
	generateCoreML bool
	runner         services.Runner
	logger         *slog.Logger
}

// NewService creates a whisper.cpp service from application config.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		binary:         cfg.WhisperBinary(),
		modelsDir:      cfg.WhisperModelsDir(),
		generateCoreML: cfg.Whisper.GenerateCoreML,
		runner:         services.Run,
		logger:         logging.NewComponentLogger(logger, "whisper"),
	}
}

// WithRunner sets a custom command runner (for testing).
func (s *Service) WithRunner(runner services.Runner) {
	if runner != nil {
		s.runner = runner
	}
}

// BinaryPath returns the transcription binary path.
func (s *Service) BinaryPath() string {
	return s.binary
}

// ModelPath returns the ggml weight file path for a model name.
func (s *Service) ModelPath(model string) string {
	return filepath.Join(s.modelsDir, ModelFilePrefix+model+ModelFileSuffix)
}

// ModelInstalled reports whether the model's weight file is on disk.
func (s *Service) ModelInstalled(model string) bool {
	info, err := os.Stat(s.ModelPath(model))
	return err == nil && !info.IsDir()
}

// Transcribe runs whisper-cli against a local audio file and parses its
// stdout into transcript segments. The binary is invoked exactly once per
// call; a non-zero exit surfaces as a transcription error carrying the
// binary's exit status and stderr diagnostic.
func (s *Service) Transcribe(ctx context.Context, audioPath, model, language string) (Result, error) {
	var result Result

	if audioPath == "" {
		return result, services.Wrap(services.ErrUsage, "whisper", "transcribe", "audio path required", nil)
	}
	if model == "" {
		return result, services.Wrap(services.ErrUsage, "whisper", "transcribe", "model name required", nil)
	}
	if _, err := os.Stat(s.binary); err != nil {
		return result, services.Wrap(services.ErrConfiguration, "whisper", "transcribe",
			"binary "+s.binary+" not found; build whisper.cpp or set whisper.binary", err)
	}
	modelPath := s.ModelPath(model)
	if !s.ModelInstalled(model) {
		return result, services.Wrap(services.ErrConfiguration, "whisper", "transcribe",
			"model "+model+" is not downloaded (run 'stai models download "+model+"')", nil)
	}

	args := []string{"-m", modelPath, "-f", audioPath}
	if language != "" {
		args = append(args, "-l", language)
	}

	s.logger.Info("invoking transcription binary",
		logging.String("binary", s.binary),
		logging.String("model", model),
		logging.String("audio", audioPath),
	)

	run, err := s.runner(ctx, s.binary, args...)
	if err != nil {
		return result, services.Wrap(services.ErrTranscription, "whisper", "transcribe", model, err)
	}

	result = ParseTranscript(run.Stdout)
	s.logger.Info("transcription finished",
		logging.String("model", model),
		logging.Int("segments", len(result.Segments)),
	)
	return result, nil
}
