package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ankideck/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ANKIDECK_SOURCE_DIR", "")
	t.Setenv("ANKIDECK_BUILD_DIR", "")
	return home
}

func writeConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := toml.Marshal(v)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "ankideck.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsExpandRelativePaths(t *testing.T) {
	isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if !strings.HasSuffix(resolved, filepath.Join(".config", "ankideck", "config.toml")) {
		t.Fatalf("unexpected resolved path %q", resolved)
	}

	wantSrc, _ := filepath.Abs("src")
	wantBuild, _ := filepath.Abs("build")
	if cfg.Paths.SourceDir != wantSrc {
		t.Fatalf("source dir = %q, want %q", cfg.Paths.SourceDir, wantSrc)
	}
	if cfg.Paths.BuildDir != wantBuild {
		t.Fatalf("build dir = %q, want %q", cfg.Paths.BuildDir, wantBuild)
	}
	if cfg.Build.JSONIndent != "  " || cfg.Build.KeepGoing || cfg.Build.DefaultLanguage != "" {
		t.Fatalf("unexpected build defaults %+v", cfg.Build)
	}
	if !cfg.Ledger.Enabled {
		t.Fatal("expected ledger enabled by default")
	}
	if got, want := cfg.LedgerPath(), filepath.Join(wantBuild, ".ankideck", "ledger.db"); got != want {
		t.Fatalf("ledger path = %q, want %q", got, want)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	home := isolate(t)

	type payload struct {
		Paths struct {
			SourceDir string `toml:"source_dir"`
			BuildDir  string `toml:"build_dir"`
		} `toml:"paths"`
		Build struct {
			DefaultLanguage string `toml:"default_language"`
			KeepGoing       bool   `toml:"keep_going"`
			JSONIndent      string `toml:"json_indent"`
		} `toml:"build"`
		Ledger struct {
			Path string `toml:"path"`
		} `toml:"ledger"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.SourceDir = "~/decks/src"
	custom.Paths.BuildDir = "~/decks/out"
	custom.Build.DefaultLanguage = " fr "
	custom.Build.KeepGoing = true
	custom.Build.JSONIndent = "\t"
	custom.Ledger.Path = "~/history.db"
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "Warning"
	path := writeConfig(t, custom)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved %q (exists %v), want %q", resolved, exists, path)
	}
	if cfg.Paths.SourceDir != filepath.Join(home, "decks", "src") {
		t.Fatalf("source dir = %q", cfg.Paths.SourceDir)
	}
	if cfg.Paths.BuildDir != filepath.Join(home, "decks", "out") {
		t.Fatalf("build dir = %q", cfg.Paths.BuildDir)
	}
	if cfg.Build.DefaultLanguage != "fr" || !cfg.Build.KeepGoing || cfg.Build.JSONIndent != "\t" {
		t.Fatalf("unexpected build section %+v", cfg.Build)
	}
	if cfg.LedgerPath() != filepath.Join(home, "history.db") {
		t.Fatalf("ledger path = %q", cfg.LedgerPath())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "warn" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
}

func TestEnvOverridesConfigFilePaths(t *testing.T) {
	isolate(t)
	envSrc := filepath.Join(t.TempDir(), "env-src")
	envBuild := filepath.Join(t.TempDir(), "env-build")
	t.Setenv("ANKIDECK_SOURCE_DIR", envSrc)
	t.Setenv("ANKIDECK_BUILD_DIR", envBuild)

	path := writeConfig(t, map[string]any{
		"paths": map[string]any{"source_dir": "/file/src", "build_dir": "/file/build"},
	})
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.SourceDir != envSrc || cfg.Paths.BuildDir != envBuild {
		t.Fatalf("env overrides not applied: %+v", cfg.Paths)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)
	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name:    "log format",
			payload: map[string]any{"logging": map[string]any{"format": "xml"}},
			want:    "logging.format must be one of console, json",
		},
		{
			name:    "log level",
			payload: map[string]any{"logging": map[string]any{"level": "loud"}},
			want:    "logging.level must be one of",
		},
		{
			name:    "indent",
			payload: map[string]any{"build": map[string]any{"json_indent": "--"}},
			want:    "build.json_indent",
		},
		{
			name:    "same dirs",
			payload: map[string]any{"paths": map[string]any{"source_dir": "/tmp/deck", "build_dir": "/tmp/deck"}},
			want:    "paths.build_dir must differ",
		},
		{
			name:    "unknown key",
			payload: map[string]any{"paths": map[string]any{"staging_dir": "/tmp"}},
			want:    "parse config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, tt.payload))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateRequiresPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.SourceDir = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "paths.source_dir must be set") {
		t.Fatalf("expected source_dir error, got %v", err)
	}
}

func TestExpandPathsAfterOverride(t *testing.T) {
	home := isolate(t)
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	cfg.Paths.SourceDir = "~/other"
	if err := cfg.ExpandPaths(); err != nil {
		t.Fatalf("ExpandPaths: %v", err)
	}
	if cfg.Paths.SourceDir != filepath.Join(home, "other") {
		t.Fatalf("source dir = %q", cfg.Paths.SourceDir)
	}
}

func TestCreateSample(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "ankideck.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, section := range []string{"[paths]", "[build]", "[ledger]", "[logging]"} {
		if !strings.Contains(string(contents), section) {
			t.Fatalf("sample missing %s", section)
		}
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists || cfg.Build.JSONIndent != "  " {
		t.Fatalf("unexpected sample config %+v", cfg.Build)
	}
}
