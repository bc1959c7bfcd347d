package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
ledger_dir = %q
backup_dir = %q
log_dir = %q

[processing]
backup_originals = false
`, filepath.Join(base, "ledger"), filepath.Join(base, "backups"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func runCommandOrFail(t *testing.T, args ...string) string {
	t.Helper()
	output, err := runCommand(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, output)
	}
	return output
}

func writeMedia(t *testing.T, dir string, names ...string) {
	t.Helper()
	modTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		if err := os.Chtimes(path, modTime, modTime); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}
}

func TestPatternsValidateCommand(t *testing.T) {
	output := runCommandOrFail(t, "patterns", "validate", "{date}_{description}_{sequence}")
	if !strings.Contains(output, "Pattern valid") {
		t.Fatalf("unexpected output: %s", output)
	}
	if !strings.Contains(output, "date, description, sequence") {
		t.Fatalf("expected placeholder listing, got: %s", output)
	}

	if _, err := runCommand(t, "patterns", "validate", "{weather}"); err == nil {
		t.Fatal("expected error for unknown placeholder")
	}
	if _, err := runCommand(t, "patterns", "validate", "{date"); err == nil {
		t.Fatal("expected error for unbalanced braces")
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	output := runCommandOrFail(t, "config", "init", "--path", target)
	if !strings.Contains(output, "Wrote sample configuration") {
		t.Fatalf("unexpected output: %s", output)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	runCommandOrFail(t, "config", "init", "--path", target, "--overwrite")
}

func TestConfigShowCommand(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	configPath := writeTestConfig(t)
	output := runCommandOrFail(t, "--config", configPath, "config", "show")
	if !strings.Contains(output, "# "+configPath) {
		t.Fatalf("expected config path header, got: %s", output)
	}
	if !strings.Contains(output, "[vision]") || !strings.Contains(output, "[output]") {
		t.Fatalf("expected toml sections, got: %s", output)
	}
}

func TestPreviewCommandProposesNames(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	configPath := writeTestConfig(t)
	inputDir := t.TempDir()
	writeMedia(t, inputDir, "IMG_0100.jpg", "IMG_0101.jpg")

	output := runCommandOrFail(t, "--config", configPath, "preview", inputDir)
	if !strings.Contains(output, "2 to rename") {
		t.Fatalf("unexpected output: %s", output)
	}
	// Without an API key descriptions derive from the file names.
	if !strings.Contains(output, "2024-01-01_img_0100_001.jpg") {
		t.Fatalf("expected fallback-derived name, got: %s", output)
	}

	// Preview must not touch anything.
	if _, err := os.Stat(filepath.Join(inputDir, "IMG_0100.jpg")); err != nil {
		t.Fatalf("preview must not rename: %v", err)
	}
}

func TestRenameAndUndoCommands(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	configPath := writeTestConfig(t)
	inputDir := t.TempDir()
	writeMedia(t, inputDir, "IMG_0100.jpg")

	output := runCommandOrFail(t, "--config", configPath, "rename", "--yes", inputDir)
	if !strings.Contains(output, "1 renamed, 0 failed") {
		t.Fatalf("unexpected output: %s", output)
	}
	renamed := filepath.Join(inputDir, "2024-01-01_img_0100_001.jpg")
	if _, err := os.Stat(renamed); err != nil {
		t.Fatalf("renamed file missing: %v", err)
	}

	listing := runCommandOrFail(t, "--config", configPath, "batches")
	if !strings.Contains(listing, "committed") {
		t.Fatalf("expected committed batch in listing: %s", listing)
	}

	undoOut := runCommandOrFail(t, "--config", configPath, "undo")
	if !strings.Contains(undoOut, "Restored 1 files") {
		t.Fatalf("unexpected undo output: %s", undoOut)
	}
	if _, err := os.Stat(filepath.Join(inputDir, "IMG_0100.jpg")); err != nil {
		t.Fatalf("original not restored: %v", err)
	}
}

func TestRenameDeclinedLeavesFilesAlone(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	configPath := writeTestConfig(t)
	inputDir := t.TempDir()
	writeMedia(t, inputDir, "IMG_0100.jpg")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("n\n"))
	cmd.SetArgs([]string{"--config", configPath, "rename", inputDir})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("rename: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Aborted.") {
		t.Fatalf("expected abort message: %s", out.String())
	}
	if _, err := os.Stat(filepath.Join(inputDir, "IMG_0100.jpg")); err != nil {
		t.Fatalf("declined rename must not move files: %v", err)
	}
}

func TestShouldSkipConfigAnnotations(t *testing.T) {
	parent := &cobra.Command{Use: "parent", Annotations: map[string]string{"skipConfigLoad": "true"}}
	child := &cobra.Command{Use: "child"}
	parent.AddCommand(child)
	if !shouldSkipConfig(child) {
		t.Fatal("child should inherit skipConfigLoad from parent")
	}
	if shouldSkipConfig(&cobra.Command{Use: "plain"}) {
		t.Fatal("plain command should not skip config")
	}
}
