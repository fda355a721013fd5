package testsupport

import (
	"path/filepath"
	"testing"

	"ankideck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The source directory is left empty; pair it with NewSourceTree via
// WithSourceDir when a populated tree is needed.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(base, "src")
	cfg.Paths.BuildDir = filepath.Join(base, "build")
	cfg.Ledger.Path = filepath.Join(base, "ledger.db")

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithSourceDir points the config at an existing source tree.
func WithSourceDir(dir string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.SourceDir = dir
	}
}

// WithoutLedger disables build history recording.
func WithoutLedger() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Ledger.Enabled = false
	}
}
