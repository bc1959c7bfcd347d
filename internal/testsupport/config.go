package testsupport

import (
	"path/filepath"
	"testing"

	"assetnamer/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LedgerDir = filepath.Join(base, "ledger")
	cfgVal.Paths.BackupDir = filepath.Join(base, "backups")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Vision.APIKey = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithVisionAPIKey sets the vision API key on the test config.
func WithVisionAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Vision.APIKey = key
	}
}

// WithPattern overrides the default naming pattern on the test config.
func WithPattern(pattern string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Patterns.Default = pattern
		if b.cfg.Patterns.Library != nil {
			b.cfg.Patterns.Library["default"] = pattern
		}
	}
}

// WithBackups toggles original-file backups on the test config.
func WithBackups(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Processing.BackupOriginals = enabled
	}
}
