// Package logging assembles the structured slog loggers used across ankideck.
//
// It owns the console and JSON handlers, level parsing, component loggers,
// and the WarnWithContext/ErrorWithContext helpers that give every warning a
// cause, an impact, and a hint. NewNop serves tests and wiring code that has
// no logger of its own.
package logging
