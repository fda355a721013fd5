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
	c.normalizeBuild()
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(envSourceDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.SourceDir = value
	}
	if value, ok := os.LookupEnv(envBuildDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.BuildDir = value
	}
	return c.ExpandPaths()
}

// ExpandPaths re-applies path expansion after callers override Paths, as the
// --src and --build flags do.
func (c *Config) ExpandPaths() error {
	var err error
	if c.Paths.SourceDir, err = expandPath(strings.TrimSpace(c.Paths.SourceDir)); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if c.Paths.BuildDir, err = expandPath(strings.TrimSpace(c.Paths.BuildDir)); err != nil {
		return fmt.Errorf("paths.build_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBuild() {
	c.Build.DefaultLanguage = strings.TrimSpace(c.Build.DefaultLanguage)
	if c.Build.JSONIndent == "" {
		c.Build.JSONIndent = defaultJSONIndent
	}
}

func (c *Config) normalizeLedger() error {
	path := strings.TrimSpace(c.Ledger.Path)
	if path == "" {
		c.Ledger.Path = ""
		return nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	c.Ledger.Path = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch c.Logging.Level {
	case "":
		c.Logging.Level = defaultLogLevel
	case "warning":
		c.Logging.Level = "warn"
	}
}
