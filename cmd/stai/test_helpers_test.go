package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"stai/internal/config"
	"stai/internal/testsupport"
)

// writeConfigFile persists a test config as TOML and returns its path so
// commands can be pointed at it with --config.
func writeConfigFile(t *testing.T, cfg *config.Config) string {
	t.Helper()

	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(testsupport.BaseDir(cfg), "stai.toml")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// runCLI executes the root command with args and captures stdout/stderr. Each
// call builds a fresh command tree so per-test configs never leak.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
