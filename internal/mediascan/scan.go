package mediascan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"assetnamer/internal/config"
)

// Kind distinguishes the two supported media classes.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Asset is one media file selected for the batch. Immutable after scan except
// for Description, which the describe stage sets exactly once.
type Asset struct {
	Path        string
	Size        int64
	ModTime     time.Time
	Kind        Kind
	Description string
}

// Stem returns the filename without directory or extension.
func (a Asset) Stem() string {
	base := filepath.Base(a.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ext returns the lowercased extension including the leading dot.
func (a Asset) Ext() string {
	return strings.ToLower(filepath.Ext(a.Path))
}

// Excluded describes a file that was skipped during scanning, with the reason
// surfaced to the caller. Exclusions are reported, never treated as failures.
type Excluded struct {
	Path   string
	Reason string
}

// Scan enumerates the media files directly inside dir, filtering by the
// configured extension sets and size limit. Results are sorted by path so
// sequence numbers are assigned deterministically.
func Scan(dir string, cfg *config.Config) ([]Asset, []Excluded, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("stat input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("input path %s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read input directory: %w", err)
	}

	supported := cfg.SupportedExtensions()
	maxSize := cfg.MaxFileSizeBytes()

	var assets []Asset
	var excluded []Excluded
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := supported[ext]; !ok {
			excluded = append(excluded, Excluded{Path: path, Reason: "unsupported extension"})
			continue
		}
		fileInfo, err := entry.Info()
		if err != nil {
			return nil, nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if fileInfo.Size() > maxSize {
			excluded = append(excluded, Excluded{
				Path:   path,
				Reason: fmt.Sprintf("exceeds size limit (%d bytes > %d bytes)", fileInfo.Size(), maxSize),
			})
			continue
		}

		kind := KindImage
		if cfg.IsVideoExtension(ext) {
			kind = KindVideo
		}
		assets = append(assets, Asset{
			Path:    path,
			Size:    fileInfo.Size(),
			ModTime: fileInfo.ModTime(),
			Kind:    kind,
		})
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].Path < assets[j].Path })
	return assets, excluded, nil
}
