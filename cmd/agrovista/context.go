package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"agrovista/internal/catalog"
	"agrovista/internal/config"
	"agrovista/internal/layers"
	"agrovista/internal/logging"
	"agrovista/internal/report"
	"agrovista/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
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
			c.configErr = services.Wrap(services.ErrConfiguration, "cli", "load config", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "cli", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logFilePath is where every command appends its structured log, and what
// the logs command reads back.
func (c *commandContext) logFilePath() (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg.Paths.LogDir, "agrovista.log"), nil
}

// ensureLogger builds the process logger on stderr plus the shared log file
// so command output on stdout stays machine-readable.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logFile, err := c.logFilePath()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{"stderr", logFile},
		})
		if c.loggerErr != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "cli", "build logger", "", c.loggerErr)
		}
	})
	return c.logger, c.loggerErr
}

// withEngine opens the catalog for the duration of one command run.
func (c *commandContext) withEngine(fn func(*report.Engine) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg.Paths.DatabasePath, logger)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "open catalog", cfg.Paths.DatabasePath, err)
	}
	defer store.Close()
	return fn(report.NewEngine(cfg, store, logger))
}

// loadLayers reads the restriction layer set without touching the catalog.
func (c *commandContext) loadLayers() (*layers.Set, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	set, err := layers.NewLoader(cfg.Paths.LayersDir, logger).Load()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "load layers", "", err)
	}
	return set, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
