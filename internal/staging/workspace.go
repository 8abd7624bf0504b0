package staging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"stai/internal/logging"
)

// Workspace is a per-run scratch directory for downloaded audio. Each
// invocation owns its workspace exclusively; nothing is shared across runs.
type Workspace struct {
	Dir    string
	logger *slog.Logger
}

// NewWorkspace creates a uniquely named directory under baseDir.
func NewWorkspace(baseDir string, logger *slog.Logger) (*Workspace, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("staging: base directory required")
	}
	dir := filepath.Join(baseDir, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("staging: create workspace: %w", err)
	}
	return &Workspace{
		Dir:    dir,
		logger: logging.NewComponentLogger(logger, "staging"),
	}, nil
}

// Path joins name onto the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Cleanup removes the workspace. Safe to call on every exit path; errors
// are logged rather than returned because cleanup failure must not mask the
// run's outcome. Anything worth retaining is copied out before Cleanup.
func (w *Workspace) Cleanup() {
	if w == nil || w.Dir == "" {
		return
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		w.logger.Warn("failed to remove staging workspace",
			logging.String("path", w.Dir),
			logging.Error(err),
		)
	}
}
