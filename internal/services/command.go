package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// RunResult captures the outcome of a finished external command.
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Diagnostic returns the most useful error text the command produced.
func (r RunResult) Diagnostic() string {
	if msg := strings.TrimSpace(r.Stderr); msg != "" {
		return msg
	}
	return strings.TrimSpace(r.Stdout)
}

// Runner executes an external command and reports its structured outcome.
// Production code uses Run; tests substitute recording fakes.
type Runner func(ctx context.Context, name string, args ...string) (RunResult, error)

// Run executes a command synchronously, capturing stdout and stderr
// separately. A non-zero exit produces both a populated RunResult and an
// error carrying the exit status.
func Run(ctx context.Context, name string, args ...string) (RunResult, error) {
	cmd := commandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := RunResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		failure := fmt.Errorf("%s exited with status %d", name, result.ExitCode)
		if diag := result.Diagnostic(); diag != "" {
			failure = fmt.Errorf("%s exited with status %d: %s", name, result.ExitCode, diag)
		}
		return result, WithExitCode(failure, result.ExitCode)
	}

	result.ExitCode = -1
	return result, fmt.Errorf("run %s: %w", name, err)
}
