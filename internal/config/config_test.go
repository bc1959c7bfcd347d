package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"assetnamer/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLedger := filepath.Join(tempHome, ".local", "share", "assetnamer")
	if cfg.Paths.LedgerDir != wantLedger {
		t.Fatalf("unexpected ledger dir: got %q want %q", cfg.Paths.LedgerDir, wantLedger)
	}
	if cfg.Vision.APIKey != "test-key" {
		t.Fatalf("expected vision key from env, got %q", cfg.Vision.APIKey)
	}
	if cfg.Vision.Model != "gpt-4o" {
		t.Fatalf("unexpected vision model: %q", cfg.Vision.Model)
	}
	if cfg.Processing.BatchSize != 10 {
		t.Fatalf("unexpected batch size: %d", cfg.Processing.BatchSize)
	}
	if !cfg.Processing.BackupOriginals {
		t.Fatal("expected backups enabled by default")
	}
	if cfg.Output.SequencePadding != 3 {
		t.Fatalf("unexpected sequence padding: %d", cfg.Output.SequencePadding)
	}
	if cfg.Output.DateFormat != "2006-01-02" {
		t.Fatalf("unexpected date format: %q", cfg.Output.DateFormat)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LedgerDir, cfg.Paths.BackupDir, cfg.Paths.LogDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected directory %s to exist: %v", dir, err)
		}
	}
}

func TestLoadParsesConfigFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[paths]
ledger_dir = "` + filepath.Join(dir, "ledger") + `"
backup_dir = "` + filepath.Join(dir, "backups") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[patterns]
default = "{description}_{counter}"

[patterns.library]
trips = "{location}_{date}_{sequence}"

[processing]
batch_size = 4
max_file_size_mb = 25

[output]
lowercase_names = true
space_replacement = "-"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s to be used (resolved %s, exists %v)", path, resolved, exists)
	}
	if cfg.Processing.BatchSize != 4 {
		t.Fatalf("unexpected batch size: %d", cfg.Processing.BatchSize)
	}
	if cfg.MaxFileSizeBytes() != 25*1024*1024 {
		t.Fatalf("unexpected max file size: %d", cfg.MaxFileSizeBytes())
	}
	if !cfg.Output.LowercaseNames || cfg.Output.SpaceReplacement != "-" {
		t.Fatalf("output overrides not applied: %+v", cfg.Output)
	}

	pattern, err := cfg.Pattern("trips")
	if err != nil {
		t.Fatalf("Pattern(trips): %v", err)
	}
	if pattern != "{location}_{date}_{sequence}" {
		t.Fatalf("unexpected pattern: %q", pattern)
	}
	if _, err := cfg.Pattern("missing"); err == nil {
		t.Fatal("expected error for unknown pattern name")
	}
	deflt, err := cfg.Pattern("")
	if err != nil {
		t.Fatalf("Pattern(default): %v", err)
	}
	if deflt != "{description}_{counter}" {
		t.Fatalf("unexpected default pattern: %q", deflt)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := config.Default()
	cfg.Output.SequencePadding = 0
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "sequence_padding") {
		t.Fatalf("expected sequence_padding error, got %v", err)
	}

	cfg = config.Default()
	cfg.Vision.Detail = "extreme"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "vision.detail") {
		t.Fatalf("expected vision.detail error, got %v", err)
	}

	cfg = config.Default()
	cfg.Output.SpaceReplacement = "?"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "space_replacement") {
		t.Fatalf("expected space_replacement error, got %v", err)
	}
}

func TestSupportedExtensions(t *testing.T) {
	cfg := config.Default()
	set := cfg.SupportedExtensions()
	for _, ext := range []string{".jpg", ".png", ".mp4", ".mkv"} {
		if _, ok := set[ext]; !ok {
			t.Fatalf("expected %s in supported extensions", ext)
		}
	}
	if cfg.IsVideoExtension(".JPG") {
		t.Fatal("jpg must not be a video extension")
	}
	if !cfg.IsVideoExtension("MOV") {
		t.Fatal("mov must be a video extension")
	}
}
