package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stai/internal/config"
	"stai/internal/fetch"
	"stai/internal/fileutil"
	"stai/internal/history"
	"stai/internal/logging"
	"stai/internal/services"
	"stai/internal/services/whisper"
	"stai/internal/source"
	"stai/internal/staging"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var (
		model         string
		filePath      string
		rawURL        string
		outputPath    string
		language      string
		keepDownloads bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe a local file or remote URL",
		Long: `Transcribe speech from a local audio/video file or a remote URL.

Remote URLs are materialized first: video-hosting pages go through yt-dlp
audio extraction, direct media URLs are downloaded as-is. The resolved file
is probed with ffprobe and then handed to whisper.cpp exactly once.

Examples:
  stai transcribe --model large-v3 --file-path interview.wav
  stai transcribe --model base.en --url https://www.youtube.com/watch?v=dQw4w9WgXcQ
  stai transcribe --model base.en --url https://example.com/talk.mp3 --output talk.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Classification runs before config load so pure usage
			// errors never touch the filesystem or spawn a subprocess.
			src, err := source.Classify(filePath, rawURL)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			modelName := strings.TrimSpace(model)
			if modelName == "" {
				modelName = cfg.Whisper.DefaultModel
			}
			if modelName == "" {
				return services.Wrap(services.ErrUsage, "transcribe", "model",
					"--model is required (or set whisper.default_model)", nil)
			}

			svc := whisper.NewService(cfg, logger)
			if err := svc.ValidateModel(modelName); err != nil {
				return err
			}

			keep := keepDownloads || cfg.Downloads.Keep
			return runTranscription(cmd, transcriptionRequest{
				cfg:        cfg,
				logger:     logger,
				svc:        svc,
				src:        src,
				model:      modelName,
				language:   strings.TrimSpace(language),
				outputPath: strings.TrimSpace(outputPath),
				keep:       keep,
			})
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Whisper model name (e.g. large-v3)")
	cmd.Flags().StringVar(&filePath, "file-path", "", "Path to a local audio/video file")
	cmd.Flags().StringVar(&rawURL, "url", "", "Remote media URL or video-hosting page")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Transcript destination (default: next to the audio)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Spoken language hint passed to whisper.cpp")
	cmd.Flags().BoolVar(&keepDownloads, "keep-downloads", false, "Retain downloaded audio next to the transcript")

	return cmd
}

// Workspaces this old belong to runs that never reached their own cleanup.
const staleWorkspaceAge = 24 * time.Hour

type transcriptionRequest struct {
	cfg        *config.Config
	logger     *slog.Logger
	svc        *whisper.Service
	src        source.Source
	model      string
	language   string
	outputPath string
	keep       bool
}

func runTranscription(cmd *cobra.Command, req transcriptionRequest) error {
	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}

	recorder := startRunRecord(runCtx, req.cfg, req.logger, req.src, req.model)
	defer recorder.close()

	var workspace *staging.Workspace
	if req.src.Remote() {
		staging.CleanStale(req.cfg.Paths.StagingDir, staleWorkspaceAge, req.logger)
		ws, err := staging.NewWorkspace(req.cfg.Paths.StagingDir, req.logger)
		if err != nil {
			recorder.finish(runCtx, "", "", err)
			return err
		}
		workspace = ws
		defer workspace.Cleanup()
	}

	resolver := newResolver(req.cfg, req.logger)
	destDir := ""
	if workspace != nil {
		destDir = workspace.Dir
	}
	resolved, err := resolver.Resolve(runCtx, req.src, destDir)
	if err != nil {
		recorder.finish(runCtx, "", "", err)
		return err
	}

	result, err := req.svc.Transcribe(runCtx, resolved, req.model, req.language)
	if err != nil {
		recorder.finish(runCtx, resolved, "", err)
		return err
	}

	transcriptPath := transcriptDestination(req.outputPath, req.cfg.Paths.OutputDir, resolved, req.src)
	if err := os.WriteFile(transcriptPath, []byte(result.Text()+"\n"), 0o644); err != nil {
		err = fmt.Errorf("write transcript %s: %w", transcriptPath, err)
		recorder.finish(runCtx, resolved, "", err)
		return err
	}

	persistedAudio := resolved
	if req.keep && workspace != nil {
		kept := filepath.Join(filepath.Dir(transcriptPath), filepath.Base(resolved))
		if copyErr := fileutil.CopyFileVerified(resolved, kept); copyErr != nil {
			req.logger.Warn("failed to retain downloaded audio",
				logging.String("source", resolved),
				logging.String("target", kept),
				logging.Error(copyErr),
			)
		} else {
			persistedAudio = kept
			fmt.Fprintf(cmd.ErrOrStderr(), "Downloaded audio retained at %s\n", kept)
		}
	}

	recorder.finish(runCtx, persistedAudio, transcriptPath, nil)

	fmt.Fprintln(cmd.OutOrStdout(), result.Text())
	fmt.Fprintf(cmd.ErrOrStderr(), "Transcript saved to %s\n", transcriptPath)
	return nil
}

func newResolver(cfg *config.Config, logger *slog.Logger) *source.Resolver {
	ytdlp := fetch.NewYtDlp(
		fetch.WithYtDlpBinary(cfg.YtDlpBinary()),
		fetch.WithFFmpegBinary(cfg.FFmpegBinary()),
	)
	client := fetch.NewClient(ytdlp, time.Duration(cfg.Downloads.TimeoutSeconds)*time.Second)
	return source.NewResolver(client, cfg.FFprobeBinary(), logger)
}

// transcriptDestination picks where the transcript lands: an explicit
// --output wins, then the configured output directory, then the audio
// file's own directory (for downloads that directory is the workspace, so
// fall back to the working directory instead).
func transcriptDestination(outputPath, outputDir, resolved string, src source.Source) string {
	if outputPath != "" {
		return outputPath
	}
	name := strings.TrimSuffix(filepath.Base(resolved), filepath.Ext(resolved)) + ".txt"
	if outputDir != "" {
		return filepath.Join(outputDir, name)
	}
	if src.Kind == source.KindLocalFile {
		return resolved + ".txt"
	}
	return name
}

// runRecorder wraps best-effort history bookkeeping. A store failure is
// logged and degrades to a no-op so it can never fail a transcription.
type runRecorder struct {
	store  *history.Store
	run    *history.Run
	logger *slog.Logger
}

func startRunRecord(ctx context.Context, cfg *config.Config, logger *slog.Logger, src source.Source, model string) *runRecorder {
	recorder := &runRecorder{logger: logging.NewComponentLogger(logger, "history")}

	store, err := history.Open(ctx, cfg.Paths.HistoryDB)
	if err != nil {
		recorder.logger.Warn("history unavailable", logging.Error(err))
		return recorder
	}
	recorder.store = store

	run := &history.Run{
		Source:     src.Location,
		SourceKind: string(src.Kind),
		Model:      model,
	}
	if err := store.Begin(ctx, run); err != nil {
		recorder.logger.Warn("failed to record run", logging.Error(err))
		return recorder
	}
	recorder.run = run
	return recorder
}

func (r *runRecorder) finish(ctx context.Context, resolved, transcriptPath string, runErr error) {
	if r.store == nil || r.run == nil {
		return
	}
	r.run.ResolvedPath = resolved
	r.run.TranscriptPath = transcriptPath
	if runErr != nil {
		r.run.Status = history.StatusFailed
		r.run.ErrorMessage = runErr.Error()
	} else {
		r.run.Status = history.StatusCompleted
	}
	if err := r.store.Finish(ctx, r.run); err != nil {
		r.logger.Warn("failed to finish run record", logging.Error(err))
	}
	r.run = nil
}

func (r *runRecorder) close() {
	if r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.logger.Warn("failed to close history store", logging.Error(err))
	}
}
