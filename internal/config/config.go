package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LedgerDir string `toml:"ledger_dir"`
	BackupDir string `toml:"backup_dir"`
	LogDir    string `toml:"log_dir"`
}

// Patterns contains the named naming-pattern library.
type Patterns struct {
	Default  string            `toml:"default"`
	Library  map[string]string `toml:"library"`
	Sequence int               `toml:"sequence_start"`
}

// Formats lists the file extensions accepted for each media kind.
type Formats struct {
	Images []string `toml:"images"`
	Videos []string `toml:"videos"`
}

// Vision contains configuration for the content description API.
type Vision struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float64 `toml:"temperature"`
	Detail         string  `toml:"detail"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	FFmpegBinary   string  `toml:"ffmpeg_binary"`
}

// Processing contains batch behavior settings.
type Processing struct {
	BatchSize       int  `toml:"batch_size"`
	BackupOriginals bool `toml:"backup_originals"`
	MaxFileSizeMB   int  `toml:"max_file_size_mb"`
	RetryAttempts   int  `toml:"retry_attempts"`
}

// Output contains filename shaping settings.
type Output struct {
	DateFormat       string `toml:"date_format"`
	SequencePadding  int    `toml:"sequence_padding"`
	LowercaseNames   bool   `toml:"lowercase_names"`
	SpaceReplacement string `toml:"space_replacement"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	BatchEvents    bool   `toml:"batch_events"`
	UndoEvents     bool   `toml:"undo_events"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the renamer.
//
// Configuration sections by subsystem:
//   - Paths: ledger database, backup copies, and log directories
//   - Patterns: named naming patterns and the counter start value
//   - Formats: supported image and video extensions
//   - Vision: content description API connection settings
//   - Processing: batch size, backups, size limits, retries
//   - Output: date layout, sequence padding, casing, space replacement
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Patterns      Patterns      `toml:"patterns"`
	Formats       Formats       `toml:"formats"`
	Vision        Vision        `toml:"vision"`
	Processing    Processing    `toml:"processing"`
	Output        Output        `toml:"output"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/assetnamer/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("assetnamer.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the renamer writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LedgerDir, c.Paths.BackupDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Pattern resolves a pattern by name from the configured library. An empty name
// selects the default pattern.
func (c *Config) Pattern(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}
	if pattern, ok := c.Patterns.Library[name]; ok && strings.TrimSpace(pattern) != "" {
		return pattern, nil
	}
	if name == "default" && strings.TrimSpace(c.Patterns.Default) != "" {
		return c.Patterns.Default, nil
	}
	return "", fmt.Errorf("naming pattern %q is not configured", name)
}

// SupportedExtensions returns the merged image and video extension set, each
// entry lowercased with a leading dot.
func (c *Config) SupportedExtensions() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Formats.Images)+len(c.Formats.Videos))
	for _, ext := range c.Formats.Images {
		set[normalizeExtension(ext)] = struct{}{}
	}
	for _, ext := range c.Formats.Videos {
		set[normalizeExtension(ext)] = struct{}{}
	}
	return set
}

// IsVideoExtension reports whether ext belongs to the configured video formats.
func (c *Config) IsVideoExtension(ext string) bool {
	ext = normalizeExtension(ext)
	for _, candidate := range c.Formats.Videos {
		if normalizeExtension(candidate) == ext {
			return true
		}
	}
	return false
}

// MaxFileSizeBytes returns the configured per-file size limit in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Processing.MaxFileSizeMB) * 1024 * 1024
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
