package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"ankideck/internal/logging"
)

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerLayout(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	builder := logging.NewComponentLogger(logger, "builder")
	builder.Info("deck built", logging.Int("notes", 3), logging.String("deck", "Spanish::Verbs"), logging.Bool("synthesized", false))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus three fields, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "INFO [builder] – deck built") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	// highlighted keys lead regardless of call order
	if lines[1] != "    - Deck: Spanish::Verbs" {
		t.Fatalf("unexpected first field %q", lines[1])
	}
	if lines[2] != "    - Notes: 3" || lines[3] != "    - Synthesized: no" {
		t.Fatalf("unexpected fields %q", lines[2:])
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"), logging.Error(errors.New("boom")))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if record["msg"] != "json message" || record["level"] != "info" || record["k"] != "v" {
		t.Fatalf("unexpected record %v", record)
	}
	if record["error"] != "boom" {
		t.Fatalf("error should render as its message, got %v", record["error"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("missing ts in %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "unused media files", "unused_media",
		logging.String(logging.FieldImpact, "files are skipped"),
	)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if record["level"] != "warn" || record[logging.FieldEventType] != "unused_media" {
		t.Fatalf("unexpected record %v", record)
	}
	if record[logging.FieldImpact] != "files are skipped" {
		t.Fatalf("caller impact must win, got %v", record[logging.FieldImpact])
	}
	if hint, _ := record[logging.FieldErrorHint].(string); hint == "" {
		t.Fatalf("expected default hint, got %v", record)
	}
}

func TestErrorWithContextKeepsCallerHint(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.ErrorWithContext(logger, "deck build failed", "deck_build_failed",
		logging.String(logging.FieldErrorHint, "add the column"),
	)
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if record[logging.FieldErrorHint] != "add the column" || record[logging.FieldEventType] != "deck_build_failed" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record[logging.FieldImpact]; ok {
		t.Fatalf("errors carry no impact default: %v", record)
	}
}

func TestNopAndNilLoggers(t *testing.T) {
	logging.WarnWithContext(nil, "ignored", "noop")
	logging.ErrorWithContext(nil, "ignored", "noop")
	logger := logging.NewComponentLogger(nil, "test")
	if logger.Enabled(t.Context(), 12) {
		t.Fatal("nop logger must be disabled at every level")
	}
	logger.Error("discarded")
}
