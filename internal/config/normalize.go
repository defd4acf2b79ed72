package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeOutput()
	c.normalizeProbe()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeOutput() {
	c.Output.Format = strings.TrimSpace(c.Output.Format)
	if c.Output.Format == "" {
		c.Output.Format = defaultOutputFormat
	}
	c.Output.ShowOptionalFields = strings.ToLower(strings.TrimSpace(c.Output.ShowOptionalFields))
	if c.Output.ShowOptionalFields == "" {
		c.Output.ShowOptionalFields = defaultOptionalFields
	}
	c.Output.StringValidation = strings.ToLower(strings.TrimSpace(c.Output.StringValidation))
	if c.Output.StringValidation == "" {
		c.Output.StringValidation = defaultStringValidation
	}
	c.Output.ShowEntries = strings.TrimSpace(c.Output.ShowEntries)
	c.Output.Hash = strings.ToLower(strings.TrimSpace(c.Output.Hash))
}

func (c *Config) normalizeProbe() {
	c.Probe.Binary = strings.TrimSpace(c.Probe.Binary)
	if c.Probe.Binary == "" {
		c.Probe.Binary = defaultProbeBinary
	}
	if c.Probe.TimeoutSeconds <= 0 {
		c.Probe.TimeoutSeconds = defaultProbeTimeout
	}
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	expanded, err := expandPath(c.Cache.Path)
	if err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	c.Cache.Path = expanded
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		expanded, err := expandPath(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
