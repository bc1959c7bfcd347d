package vision

import (
	"context"
	"path/filepath"
	"strings"

	"assetnamer/internal/textutil"
)

// Describer produces a description for any supported media file, extracting a
// frame first when the file is a video. When no API key is configured it
// falls back to deriving a description from the file name so batches still
// complete offline.
type Describer struct {
	client       *Client
	ffmpegBinary string
}

// NewDescriber wraps a client with the frame extraction settings needed for
// video files.
func NewDescriber(client *Client, ffmpegBinary string) *Describer {
	return &Describer{client: client, ffmpegBinary: ffmpegBinary}
}

// DescribeFile returns a description for the media file at path.
func (d *Describer) DescribeFile(ctx context.Context, path string, video bool) (Description, error) {
	if d == nil || d.client == nil || !d.client.Enabled() {
		return FallbackDescription(path), nil
	}
	if video {
		frame, err := ExtractVideoFrame(ctx, d.ffmpegBinary, path)
		if err != nil {
			return Description{}, err
		}
		return d.client.DescribeImage(ctx, frame, "image/jpeg")
	}
	return d.client.DescribeImageFile(ctx, path)
}

// FallbackDescription derives a description from the file name alone.
func FallbackDescription(path string) Description {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	title := textutil.TitleFromStem(stem)
	return Description{
		Summary:   strings.ToLower(title),
		SceneType: "other",
	}
}
