package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stai/internal/services/whisper"
	"stai/internal/testsupport"
)

func TestModelsListTable(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWhisperTree("base.en"))
	cfgPath := writeConfigFile(t, cfg)

	stdout, _, err := runCLI(t, "--config", cfgPath, "models", "list")
	if err != nil {
		t.Fatalf("models list: %v", err)
	}
	for _, want := range []string{"base.en", "large-v3", "yes", "no"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in table output, got %q", want, stdout)
		}
	}
}

func TestModelsListJSON(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWhisperTree("base.en"))
	cfgPath := writeConfigFile(t, cfg)

	stdout, _, err := runCLI(t, "--config", cfgPath, "models", "list", "--json")
	if err != nil {
		t.Fatalf("models list --json: %v", err)
	}

	var statuses []whisper.ModelStatus
	if err := json.Unmarshal([]byte(stdout), &statuses); err != nil {
		t.Fatalf("parse json output: %v\n%s", err, stdout)
	}
	byName := map[string]whisper.ModelStatus{}
	for _, status := range statuses {
		byName[status.Name] = status
	}
	if !byName["base.en"].Installed {
		t.Fatal("expected base.en installed in json output")
	}
	if byName["large-v3"].Installed {
		t.Fatal("expected large-v3 missing in json output")
	}
}

func TestModelsDownloadUnknownModel(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWhisperTree())
	cfgPath := writeConfigFile(t, cfg)

	if _, _, err := runCLI(t, "--config", cfgPath, "models", "download", "nope"); err == nil {
		t.Fatal("expected error for unknown model")
	}
}

func TestModelsDownloadAlreadyInstalled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWhisperTree("base.en"))
	cfgPath := writeConfigFile(t, cfg)

	stdout, _, err := runCLI(t, "--config", cfgPath, "models", "download", "base.en")
	if err != nil {
		t.Fatalf("models download: %v", err)
	}
	if !strings.Contains(stdout, "base.en") || !strings.Contains(stdout, "ready at") {
		t.Fatalf("expected ready notice, got %q", stdout)
	}
}

func TestStatusListsTools(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithWhisperTree(),
		testsupport.WithStubbedBinaries(),
	)
	cfgPath := writeConfigFile(t, cfg)

	stdout, _, err := runCLI(t, "--config", cfgPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"ffmpeg", "ffprobe", "yt-dlp", "whisper-cli", "whisper.cpp root:", "model directory:"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in status output, got %q", want, stdout)
		}
	}
}

func TestHistoryEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfgPath := writeConfigFile(t, cfg)

	stdout, _, err := runCLI(t, "--config", cfgPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(stdout, "No transcription runs recorded yet") {
		t.Fatalf("expected empty notice, got %q", stdout)
	}
}

func TestHistoryJSONEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfgPath := writeConfigFile(t, cfg)

	stdout, _, err := runCLI(t, "--config", cfgPath, "history", "--json")
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	if strings.TrimSpace(stdout) != "null" && strings.TrimSpace(stdout) != "[]" {
		t.Fatalf("expected empty json payload, got %q", stdout)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "config.toml")

	stdout, _, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(stdout, target) {
		t.Fatalf("expected target path in output, got %q", stdout)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config written: %v", err)
	}

	// A second init without --overwrite must refuse.
	if _, _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfgPath := writeConfigFile(t, cfg)

	stdout, _, err := runCLI(t, "--config", cfgPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(stdout, "Configuration valid") {
		t.Fatalf("expected validation notice, got %q", stdout)
	}
	if !strings.Contains(stdout, cfgPath) {
		t.Fatalf("expected resolved path in output, got %q", stdout)
	}
}

func TestConfigValidateRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stai.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := runCLI(t, "--config", path, "config", "validate"); err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestConfigShow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Whisper.DefaultModel = "base.en"
	cfgPath := writeConfigFile(t, cfg)

	stdout, _, err := runCLI(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(stdout, "default_model = 'base.en'") &&
		!strings.Contains(stdout, `default_model = "base.en"`) {
		t.Fatalf("expected effective config in output, got %q", stdout)
	}
	if !strings.Contains(stdout, "[paths]") || !strings.Contains(stdout, "[whisper]") {
		t.Fatalf("expected toml sections, got %q", stdout)
	}
}
