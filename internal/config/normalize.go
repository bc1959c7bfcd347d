package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePatterns()
	c.normalizeVision()
	c.normalizeProcessing()
	c.normalizeOutput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LedgerDir) == "" {
		c.Paths.LedgerDir = defaultLedgerDir
	}
	if c.Paths.LedgerDir, err = expandPath(c.Paths.LedgerDir); err != nil {
		return fmt.Errorf("paths.ledger_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BackupDir) == "" {
		c.Paths.BackupDir = defaultBackupDir
	}
	if c.Paths.BackupDir, err = expandPath(c.Paths.BackupDir); err != nil {
		return fmt.Errorf("paths.backup_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePatterns() {
	if c.Patterns.Library == nil {
		c.Patterns.Library = map[string]string{}
	}
	if strings.TrimSpace(c.Patterns.Default) == "" {
		c.Patterns.Default = defaultPattern
	}
	if _, ok := c.Patterns.Library["default"]; !ok {
		c.Patterns.Library["default"] = c.Patterns.Default
	}
	if c.Patterns.Sequence <= 0 {
		c.Patterns.Sequence = defaultSequenceStart
	}
}

func (c *Config) normalizeVision() {
	if key, ok := os.LookupEnv("OPENAI_API_KEY"); ok && strings.TrimSpace(c.Vision.APIKey) == "" {
		c.Vision.APIKey = strings.TrimSpace(key)
	}
	if strings.TrimSpace(c.Vision.BaseURL) == "" {
		c.Vision.BaseURL = defaultVisionBaseURL
	}
	if strings.TrimSpace(c.Vision.Model) == "" {
		c.Vision.Model = defaultVisionModel
	}
	if c.Vision.MaxTokens <= 0 {
		c.Vision.MaxTokens = defaultVisionMaxTokens
	}
	if strings.TrimSpace(c.Vision.Detail) == "" {
		c.Vision.Detail = defaultVisionDetail
	}
	if c.Vision.TimeoutSeconds <= 0 {
		c.Vision.TimeoutSeconds = defaultVisionTimeout
	}
	if strings.TrimSpace(c.Vision.FFmpegBinary) == "" {
		c.Vision.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeProcessing() {
	if c.Processing.BatchSize <= 0 {
		c.Processing.BatchSize = defaultBatchSize
	}
	if c.Processing.MaxFileSizeMB <= 0 {
		c.Processing.MaxFileSizeMB = defaultMaxFileSizeMB
	}
	if c.Processing.RetryAttempts <= 0 {
		c.Processing.RetryAttempts = defaultRetryAttempts
	}
}

func (c *Config) normalizeOutput() {
	if strings.TrimSpace(c.Output.DateFormat) == "" {
		c.Output.DateFormat = defaultDateFormat
	}
	if c.Output.SequencePadding <= 0 {
		c.Output.SequencePadding = defaultSequencePadding
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
}
