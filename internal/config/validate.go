package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOutput() error {
	switch c.Output.ShowOptionalFields {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.show_optional_fields: unknown value %q", c.Output.ShowOptionalFields)
	}
	switch c.Output.StringValidation {
	case "replace", "fail", "ignore":
	default:
		return fmt.Errorf("output.string_validation: unknown value %q", c.Output.StringValidation)
	}
	return nil
}

func (c *Config) validateProbe() error {
	if c.Probe.Binary == "" {
		return errors.New("probe.binary must be set")
	}
	if c.Probe.TimeoutSeconds <= 0 {
		return errors.New("probe.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unknown value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown value %q", c.Logging.Level)
	}
	return nil
}
