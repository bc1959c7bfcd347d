package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"assetnamer/internal/batch"
	"assetnamer/internal/config"
	"assetnamer/internal/ledger"
	"assetnamer/internal/logging"
	"assetnamer/internal/notifications"
	"assetnamer/internal/services/vision"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

// withOrchestrator wires the ledger, vision client, and notifier together for
// one command invocation and tears the store down afterwards.
func (c *commandContext) withOrchestrator(fn func(*config.Config, *ledger.Store, *batch.Orchestrator) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger()
	if err != nil {
		return err
	}
	store, err := ledger.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client := vision.NewClient(vision.Config{
		APIKey:         cfg.Vision.APIKey,
		BaseURL:        cfg.Vision.BaseURL,
		Model:          cfg.Vision.Model,
		MaxTokens:      cfg.Vision.MaxTokens,
		Temperature:    cfg.Vision.Temperature,
		Detail:         cfg.Vision.Detail,
		TimeoutSeconds: cfg.Vision.TimeoutSeconds,
	}, vision.WithRetryMaxAttempts(cfg.Processing.RetryAttempts))
	describer := vision.NewDescriber(client, cfg.Vision.FFmpegBinary)
	notifier := notifications.NewService(cfg)

	orch := batch.New(cfg, store, describer, notifier, logger)
	return fn(cfg, store, orch)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
