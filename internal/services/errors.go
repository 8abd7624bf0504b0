package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUsage         = errors.New("usage error")
	ErrNotFound      = errors.New("not found")
	ErrFetch         = errors.New("fetch failed")
	ErrProbe         = errors.New("probe failed")
	ErrTranscription = errors.New("transcription failed")
	ErrConfiguration = errors.New("configuration error")
	ErrExternalTool  = errors.New("external tool error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// exitCodeError carries the exit status of a failed external tool so the CLI
// can mirror it as the process exit code.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }

func (e *exitCodeError) Unwrap() error { return e.err }

// WithExitCode attaches an external tool's exit status to err. Codes <= 0 are
// ignored so start failures keep the generic failure code.
func WithExitCode(err error, code int) error {
	if err == nil || code <= 0 {
		return err
	}
	return &exitCodeError{code: code, err: err}
}

// ExitCode returns the exit status recorded on err, or 1 when none is
// attached. A nil error yields 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded *exitCodeError
	if errors.As(err, &coded) {
		return coded.code
	}
	return 1
}
