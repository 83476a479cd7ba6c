package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeReports()
	c.normalizeVideo()
	c.normalizeThumbnails()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.MediaDir, err = ExpandPath(c.Paths.MediaDir); err != nil {
		return fmt.Errorf("paths.media_dir: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LayersDir, err = ExpandPath(c.Paths.LayersDir); err != nil {
		return fmt.Errorf("paths.layers_dir: %w", err)
	}
	if c.Paths.CacheDir, err = ExpandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.DatabasePath, err = ExpandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeReports() {
	c.Reports.ProductName = strings.TrimSpace(c.Reports.ProductName)
	if c.Reports.ProductName == "" {
		c.Reports.ProductName = defaultProductName
	}
	c.Reports.Tagline = strings.TrimSpace(c.Reports.Tagline)
	if c.Reports.Tagline == "" {
		c.Reports.Tagline = defaultTagline
	}
	if c.Reports.DefaultMonthsBack <= 0 {
		c.Reports.DefaultMonthsBack = defaultMonthsBack
	}
}

func (c *Config) normalizeVideo() {
	c.Video.EncoderCommand = strings.TrimSpace(c.Video.EncoderCommand)
	if c.Video.EncoderCommand == "" {
		c.Video.EncoderCommand = defaultEncoderCommand
	}
	if c.Video.TimeoutSeconds <= 0 {
		c.Video.TimeoutSeconds = defaultEncoderTimeout
	}
}

func (c *Config) normalizeThumbnails() {
	if c.Thumbnails.DownloadTimeoutSeconds <= 0 {
		c.Thumbnails.DownloadTimeoutSeconds = defaultDownloadTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
