package preflight

import (
	"context"

	"assetnamer/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config and
// input directory. Checks are only run when the corresponding feature is
// enabled.
func RunAll(ctx context.Context, cfg *config.Config, inputDir string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if inputDir != "" {
		results = append(results, CheckDirectoryAccess("Input directory", inputDir))
	}
	results = append(results, CheckDirectoryAccess("Ledger directory", cfg.Paths.LedgerDir))
	if cfg.Processing.BackupOriginals {
		results = append(results, CheckDirectoryAccess("Backup directory", cfg.Paths.BackupDir))
	}
	if cfg.Vision.APIKey != "" {
		results = append(results, CheckVision(ctx, cfg.Vision))
		if len(cfg.Formats.Videos) > 0 {
			results = append(results, CheckBinary("FFmpeg", cfg.Vision.FFmpegBinary, "ffmpeg", "required for video frame extraction"))
		}
	}

	return results
}

// Failed collects the failing results, or nil when everything passed.
func Failed(results []Result) []Result {
	var failures []Result
	for _, result := range results {
		if !result.Passed {
			failures = append(failures, result)
		}
	}
	return failures
}
