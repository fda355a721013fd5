package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ankideck/internal/config"
	"ankideck/internal/ledger"
	"ankideck/internal/logging"
	"ankideck/internal/source"
	"ankideck/internal/workspace"
)

type globalFlags struct {
	config    string
	sourceDir string
	buildDir  string
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the configuration once and layers the global flags on
// top of it.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if c.flags.sourceDir != "" {
			cfg.Paths.SourceDir = c.flags.sourceDir
		}
		if c.flags.buildDir != "" {
			cfg.Paths.BuildDir = c.flags.buildDir
		}
		if c.flags.logLevel != "" {
			cfg.Logging.Level = strings.ToLower(c.flags.logLevel)
		}
		if c.flags.logFormat != "" {
			cfg.Logging.Format = strings.ToLower(c.flags.logFormat)
		}
		if err := cfg.ExpandPaths(); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// logger writes to the command's stderr so results on stdout stay parseable.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
}

func (c *commandContext) paths() source.Paths {
	cfg, _ := c.ensureConfig()
	if cfg == nil {
		return source.Paths{}
	}
	return source.Paths{Root: cfg.Paths.SourceDir}
}

// withWorkspace holds the source-tree lock while fn runs.
func (c *commandContext) withWorkspace(fn func(cfg *config.Config) error) (err error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock, err := workspace.Acquire(cfg.Paths.SourceDir)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, lock.Release())
	}()
	return fn(cfg)
}

// record appends entries to the ledger when it is enabled. A ledger failure
// is logged and does not fail the command.
func (c *commandContext) record(ctx context.Context, logger *slog.Logger, entries ...ledger.Entry) {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.Ledger.Enabled || len(entries) == 0 {
		return
	}
	if err := recordEntries(ctx, cfg.LedgerPath(), entries); err != nil {
		logging.WarnWithContext(logger, "build ledger not updated", "ledger_write_failed",
			logging.Error(err),
			logging.String("ledger", cfg.LedgerPath()),
			logging.String(logging.FieldImpact, "history omits this run"),
			logging.String(logging.FieldErrorHint, "check that the ledger path is writable"),
		)
	}
}

func recordEntries(ctx context.Context, path string, entries []ledger.Entry) error {
	store, err := ledger.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, entries...)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
