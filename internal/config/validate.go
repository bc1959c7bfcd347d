package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePatterns(); err != nil {
		return err
	}
	if err := c.validateFormats(); err != nil {
		return err
	}
	if err := c.validateVision(); err != nil {
		return err
	}
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePatterns() error {
	if strings.TrimSpace(c.Patterns.Default) == "" {
		return errors.New("patterns.default must be set")
	}
	for name, pattern := range c.Patterns.Library {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("patterns.library.%s must not be empty", name)
		}
	}
	return nil
}

func (c *Config) validateFormats() error {
	if len(c.Formats.Images) == 0 && len(c.Formats.Videos) == 0 {
		return errors.New("formats must list at least one image or video extension")
	}
	return nil
}

func (c *Config) validateVision() error {
	if strings.TrimSpace(c.Vision.BaseURL) == "" {
		return errors.New("vision.base_url must be set")
	}
	if strings.TrimSpace(c.Vision.Model) == "" {
		return errors.New("vision.model must be set")
	}
	if c.Vision.Temperature < 0 || c.Vision.Temperature > 2 {
		return errors.New("vision.temperature must be between 0 and 2")
	}
	switch strings.ToLower(strings.TrimSpace(c.Vision.Detail)) {
	case "auto", "low", "high":
	default:
		return fmt.Errorf("vision.detail must be auto, low, or high (got %q)", c.Vision.Detail)
	}
	if c.Vision.TimeoutSeconds <= 0 {
		return errors.New("vision.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if err := ensurePositiveMap(map[string]int{
		"processing.batch_size":       c.Processing.BatchSize,
		"processing.max_file_size_mb": c.Processing.MaxFileSizeMB,
		"processing.retry_attempts":   c.Processing.RetryAttempts,
		"patterns.sequence_start":     c.Patterns.Sequence,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.SequencePadding <= 0 || c.Output.SequencePadding > 10 {
		return errors.New("output.sequence_padding must be between 1 and 10")
	}
	if strings.ContainsAny(c.Output.SpaceReplacement, `<>:"/\|?*`) {
		return errors.New("output.space_replacement must be a filesystem-safe string")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if strings.TrimSpace(c.Notifications.NtfyTopic) == "" {
		return nil
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
