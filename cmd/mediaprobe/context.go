package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mediaprobe/internal/config"
	"mediaprobe/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// newLogger builds the run logger from config. The returned capture handler
// is non-nil: captured records are replayed to stderr after the report is
// flushed, so diagnostics never interleave with machine-readable output.
func (c *commandContext) newLogger() (*slog.Logger, *logging.CaptureHandler, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	capture := logging.NewCaptureHandler(slog.LevelDebug)

	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File != "" {
		opts.OutputPaths = []string{cfg.Logging.File}
		fileLogger, err := logging.New(opts)
		if err != nil {
			return nil, nil, err
		}
		return slog.New(logging.Tee(fileLogger.Handler(), capture)), capture, nil
	}
	return slog.New(capture), capture, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
