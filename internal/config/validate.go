package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateReports(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.MediaDir == "" {
		return errors.New("paths.media_dir must be set")
	}
	if c.Paths.DatabasePath == "" {
		return errors.New("paths.database_path must be set")
	}
	return nil
}

func (c *Config) validateReports() error {
	if c.Reports.DefaultMonthsBack < 1 || c.Reports.DefaultMonthsBack > 120 {
		return fmt.Errorf("reports.default_months_back must be between 1 and 120, got %d", c.Reports.DefaultMonthsBack)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.EncoderCommand == "" {
		return errors.New("video.encoder_command must be set")
	}
	if c.Video.TimeoutSeconds < 1 {
		return errors.New("video.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
