// Package vision integrates with an OpenAI-compatible vision API to produce
// structured scene descriptions for media files. It classifies failures so
// callers can retry rate limits and transient errors, extracts representative
// frames from videos with ffmpeg, and falls back to name-derived descriptions
// when no API key is configured.
package vision
