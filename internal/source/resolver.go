package source

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"stai/internal/logging"
	"stai/internal/media/ffprobe"
	"stai/internal/services"
)

// Fetcher materializes remote sources as local files.
type Fetcher interface {
	// FetchPage extracts an audio stream from a video-hosting page URL.
	FetchPage(ctx context.Context, url, destDir string) (string, error)
	// FetchDirect downloads a raw media URL.
	FetchDirect(ctx context.Context, url, destDir string) (string, error)
}

// Resolver turns a classified source into a local, probed audio path.
type Resolver struct {
	fetcher     Fetcher
	probeBinary string
	skipProbe   bool
	logger      *slog.Logger
	inspect     func(ctx context.Context, binary, path string) (ffprobe.Result, error)
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithoutProbe disables the ffprobe validation step.
func WithoutProbe() ResolverOption {
	return func(r *Resolver) { r.skipProbe = true }
}

// WithInspector replaces the ffprobe invocation (for testing).
func WithInspector(inspect func(ctx context.Context, binary, path string) (ffprobe.Result, error)) ResolverOption {
	return func(r *Resolver) {
		if inspect != nil {
			r.inspect = inspect
		}
	}
}

// NewResolver constructs a Resolver.
func NewResolver(fetcher Fetcher, probeBinary string, logger *slog.Logger, opts ...ResolverOption) *Resolver {
	resolver := &Resolver{
		fetcher:     fetcher,
		probeBinary: probeBinary,
		logger:      logging.NewComponentLogger(logger, "resolver"),
		inspect:     ffprobe.Inspect,
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver
}

// Resolve produces a local audio path ready for transcription. Remote
// sources are fetched into destDir; local paths are validated in place. The
// resolved file is probed for decodable audio unless probing is disabled.
func (r *Resolver) Resolve(ctx context.Context, src Source, destDir string) (string, error) {
	var resolved string

	switch src.Kind {
	case KindLocalFile:
		path, err := r.resolveLocal(src.Location)
		if err != nil {
			return "", err
		}
		resolved = path
	case KindVideoPage:
		path, err := r.fetcher.FetchPage(ctx, src.Location, destDir)
		if err != nil {
			return "", services.Wrap(services.ErrFetch, "resolver", "extract audio", src.Location, err)
		}
		resolved = path
	case KindDirectURL:
		path, err := r.fetcher.FetchDirect(ctx, src.Location, destDir)
		if err != nil {
			return "", services.Wrap(services.ErrFetch, "resolver", "download", src.Location, err)
		}
		resolved = path
	default:
		return "", services.Wrap(services.ErrUsage, "resolver", "resolve", "unknown source kind "+string(src.Kind), nil)
	}

	if err := r.probe(ctx, resolved); err != nil {
		return "", err
	}
	return resolved, nil
}

func (r *Resolver) resolveLocal(location string) (string, error) {
	absPath, err := filepath.Abs(location)
	if err != nil {
		return "", services.Wrap(services.ErrUsage, "resolver", "resolve path", location, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "resolver", "local file", absPath, nil)
		}
		return "", services.Wrap(services.ErrNotFound, "resolver", "inspect file", absPath, err)
	}
	if info.IsDir() {
		return "", services.Wrap(services.ErrUsage, "resolver", "local file", absPath+" is a directory", nil)
	}
	return absPath, nil
}

func (r *Resolver) probe(ctx context.Context, path string) error {
	if r.skipProbe {
		return nil
	}
	result, err := r.inspect(ctx, r.probeBinary, path)
	if err != nil {
		return services.Wrap(services.ErrProbe, "resolver", "probe", path, err)
	}
	if !result.HasAudio() {
		return services.Wrap(services.ErrProbe, "resolver", "probe", path+" contains no audio stream", nil)
	}
	r.logger.Debug("probed resolved audio",
		logging.String("path", path),
		logging.Int("audio_streams", result.AudioStreamCount()),
		logging.Float64("duration_seconds", result.DurationSeconds()),
	)
	return nil
}
