package whisper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"stai/internal/logging"
	"stai/internal/services"
)

// ModelStatus describes one model the download script knows about.
type ModelStatus struct {
	Name      string
	Installed bool
	SizeBytes int64
}

// AvailableModels parses the model names out of whisper.cpp's download
// script. The script is the single source of truth for which model
// identifiers the binary understands.
func (s *Service) AvailableModels() ([]string, error) {
	script := filepath.Join(s.modelsDir, DownloadScriptName)
	data, err := os.ReadFile(script)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "whisper", "list models",
			"download script "+script+" not readable; verify whisper.root", err)
	}

	content := string(data)
	start := strings.Index(content, `models="`)
	if start < 0 {
		return nil, services.Wrap(services.ErrConfiguration, "whisper", "list models",
			"no models block found in "+script, nil)
	}
	start += len(`models="`)
	end := strings.Index(content[start:], `"`)
	if end < 0 {
		return nil, services.Wrap(services.ErrConfiguration, "whisper", "list models",
			"unterminated models block in "+script, nil)
	}

	return strings.Fields(content[start : start+end]), nil
}

// ModelStatuses reports every known model with its installed state.
func (s *Service) ModelStatuses() ([]ModelStatus, error) {
	names, err := s.AvailableModels()
	if err != nil {
		return nil, err
	}
	statuses := make([]ModelStatus, 0, len(names))
	for _, name := range names {
		status := ModelStatus{Name: name}
		if info, err := os.Stat(s.ModelPath(name)); err == nil && !info.IsDir() {
			status.Installed = true
			status.SizeBytes = info.Size()
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// ValidateModel checks that model names something the download script knows.
func (s *Service) ValidateModel(model string) error {
	names, err := s.AvailableModels()
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == model {
			return nil
		}
	}
	return services.Wrap(services.ErrUsage, "whisper", "validate model",
		fmt.Sprintf("unknown model %q (available: %s)", model, strings.Join(names, ", ")), nil)
}

// DownloadModel fetches a model's ggml weights via whisper.cpp's download
// script. Concurrent downloads across processes are serialized with a file
// lock so two invocations cannot clobber the same weight file.
func (s *Service) DownloadModel(ctx context.Context, model string) error {
	if err := s.ValidateModel(model); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(s.modelsDir, downloadLockName))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "whisper", "download model", "acquire download lock", err)
	}
	if !locked {
		return services.Wrap(services.ErrExternalTool, "whisper", "download model",
			"another download is in progress", nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if s.ModelInstalled(model) {
		s.logger.Info("model already downloaded", logging.String("model", model))
		return nil
	}

	script := filepath.Join(s.modelsDir, DownloadScriptName)
	s.logger.Info("downloading model",
		logging.String("model", model),
		logging.String("script", script),
	)
	if _, err := s.runner(ctx, script, model); err != nil {
		return services.Wrap(services.ErrExternalTool, "whisper", "download model", model, err)
	}

	if s.generateCoreML {
		coreml := filepath.Join(s.modelsDir, CoreMLScriptName)
		s.logger.Info("preparing CoreML model", logging.String("model", model))
		if _, err := s.runner(ctx, coreml, model); err != nil {
			return services.Wrap(services.ErrExternalTool, "whisper", "prepare coreml model", model, err)
		}
	}
	return nil
}
