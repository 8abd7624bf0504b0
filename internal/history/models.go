package history

import "time"

// Status describes the outcome of a recorded transcription run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one transcription invocation. Rows are append-only: runs are never
// reused across invocations, so repeating the same request yields
// independent records.
type Run struct {
	ID             int64
	Source         string
	SourceKind     string
	Model          string
	ResolvedPath   string
	TranscriptPath string
	Status         Status
	ErrorMessage   string
	Duration       time.Duration
	CreatedAt      time.Time
	CompletedAt    time.Time
}
