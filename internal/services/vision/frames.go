package vision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExtractVideoFrame pulls a single representative frame from the video at
// path using ffmpeg and returns it as JPEG bytes. The frame is sampled a few
// seconds in to skip black leaders and fade-ins.
func ExtractVideoFrame(ctx context.Context, binary string, path string) ([]byte, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("frame extract: empty path")
	}

	tmpDir, err := os.MkdirTemp("", "assetnamer-frame-")
	if err != nil {
		return nil, fmt.Errorf("frame extract: temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	framePath := filepath.Join(tmpDir, "frame.jpg")

	cmd := exec.CommandContext(ctx, binary,
		"-hide_banner", "-loglevel", "error",
		"-ss", "3",
		"-i", path,
		"-frames:v", "1",
		"-q:v", "2",
		"-y", framePath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("frame extract: %w: %s", err, strings.TrimSpace(string(output)))
	}

	data, err := os.ReadFile(framePath)
	if err != nil {
		// Short clips can end before the seek point. Retry from the start.
		retry := exec.CommandContext(ctx, binary,
			"-hide_banner", "-loglevel", "error",
			"-i", path,
			"-frames:v", "1",
			"-q:v", "2",
			"-y", framePath,
		)
		if output, retryErr := retry.CombinedOutput(); retryErr != nil {
			return nil, fmt.Errorf("frame extract: %w: %s", retryErr, strings.TrimSpace(string(output)))
		}
		data, err = os.ReadFile(framePath)
		if err != nil {
			return nil, fmt.Errorf("frame extract: read frame: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, errors.New("frame extract: empty frame")
	}
	return data, nil
}
