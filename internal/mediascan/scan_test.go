package mediascan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"assetnamer/internal/config"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestScanFiltersAndClassifies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.JPG"), 10)
	writeFile(t, filepath.Join(dir, "a.mp4"), 20)
	writeFile(t, filepath.Join(dir, "notes.txt"), 5)
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg := config.Default()
	assets, excluded, err := Scan(dir, &cfg)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].Kind != KindVideo || filepath.Base(assets[0].Path) != "a.mp4" {
		t.Fatalf("unexpected first asset: %+v", assets[0])
	}
	if assets[1].Kind != KindImage || filepath.Base(assets[1].Path) != "b.JPG" {
		t.Fatalf("unexpected second asset: %+v", assets[1])
	}
	if len(excluded) != 1 {
		t.Fatalf("expected 1 exclusion, got %d", len(excluded))
	}
	if excluded[0].Reason != "unsupported extension" {
		t.Fatalf("unexpected reason: %q", excluded[0].Reason)
	}
}

func TestScanExcludesOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "small.jpg"), 16)
	writeFile(t, filepath.Join(dir, "huge.jpg"), 2*1024*1024)

	cfg := config.Default()
	cfg.Processing.MaxFileSizeMB = 1
	assets, excluded, err := Scan(dir, &cfg)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(assets) != 1 || filepath.Base(assets[0].Path) != "small.jpg" {
		t.Fatalf("unexpected assets: %+v", assets)
	}
	if len(excluded) != 1 || !strings.Contains(excluded[0].Reason, "size limit") {
		t.Fatalf("unexpected exclusions: %+v", excluded)
	}
}

func TestScanRejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.jpg")
	writeFile(t, file, 1)

	cfg := config.Default()
	if _, _, err := Scan(file, &cfg); err == nil {
		t.Fatal("expected error for non-directory input")
	}
	if _, _, err := Scan(filepath.Join(dir, "missing"), &cfg); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestAssetStemAndExt(t *testing.T) {
	a := Asset{Path: "/photos/Sunset Beach.JPG"}
	if a.Stem() != "Sunset Beach" {
		t.Fatalf("stem = %q", a.Stem())
	}
	if a.Ext() != ".jpg" {
		t.Fatalf("ext = %q", a.Ext())
	}
}
