package whisper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stai/internal/logging"
	"stai/internal/services"
	"stai/internal/testsupport"
)

func TestTranscribeInvokesBinaryOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWhisperTree("base.en"))
	svc := NewService(cfg, logging.NewNop())

	calls := 0
	var gotBinary string
	var gotArgs []string
	svc.WithRunner(func(ctx context.Context, binary string, args ...string) (services.RunResult, error) {
		calls++
		gotBinary = binary
		gotArgs = args
		return services.RunResult{Stdout: "[00:00:00.000 --> 00:00:01.000]   hello world\n"}, nil
	})

	result, err := svc.Transcribe(context.Background(), "/tmp/audio.wav", "base.en", "en")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one invocation, got %d", calls)
	}
	if gotBinary != svc.BinaryPath() {
		t.Fatalf("unexpected binary %s", gotBinary)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"-m " + svc.ModelPath("base.en"), "-f /tmp/audio.wav", "-l en"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args, got %q", want, joined)
		}
	}
	if result.Text() != "hello world" {
		t.Fatalf("unexpected transcript %q", result.Text())
	}
}

func TestTranscribeOmitsLanguageWhenUnset(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWhisperTree("base.en"))
	svc := NewService(cfg, logging.NewNop())
	svc.WithRunner(func(ctx context.Context, binary string, args ...string) (services.RunResult, error) {
		for _, arg := range args {
			if arg == "-l" {
				t.Fatalf("unexpected language flag in args %v", args)
			}
		}
		return services.RunResult{}, nil
	})

	if _, err := svc.Transcribe(context.Background(), "/tmp/audio.wav", "base.en", ""); err != nil {
		t.Fatalf("transcribe: %v", err)
	}
}

func TestTranscribeRequiresInstalledModel(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWhisperTree())
	svc := NewService(cfg, logging.NewNop())
	svc.WithRunner(func(ctx context.Context, binary string, args ...string) (services.RunResult, error) {
		t.Fatal("runner must not be invoked when the model is missing")
		return services.RunResult{}, nil
	})

	_, err := svc.Transcribe(context.Background(), "/tmp/audio.wav", "base.en", "")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "models download") {
		t.Fatalf("expected download hint in error, got %q", err.Error())
	}
}

func TestTranscribeRequiresBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t) // no whisper tree at all
	svc := NewService(cfg, logging.NewNop())

	_, err := svc.Transcribe(context.Background(), "/tmp/audio.wav", "base.en", "")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTranscribePreservesExitStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWhisperTree("base.en"))
	svc := NewService(cfg, logging.NewNop())
	svc.WithRunner(func(ctx context.Context, binary string, args ...string) (services.RunResult, error) {
		err := services.WithExitCode(errors.New("whisper-cli failed: ggml assert"), 3)
		return services.RunResult{ExitCode: 3}, err
	})

	_, err := svc.Transcribe(context.Background(), "/tmp/audio.wav", "base.en", "")
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected transcription error, got %v", err)
	}
	if got := services.ExitCode(err); got != 3 {
		t.Fatalf("expected exit 3 to survive wrapping, got %d", got)
	}
}
