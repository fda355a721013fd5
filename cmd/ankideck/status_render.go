package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// renderStatusLine formats one result line: a fixed-width status label, the
// subject, and an optional detail in parentheses.
func renderStatusLine(kind statusKind, subject, detail string, colorize bool) string {
	label := fmt.Sprintf("%-6s", statusKindLabel(kind))
	if colorize {
		label = statusKindColor(kind) + label + ansiReset
	}
	if detail == "" {
		return label + subject
	}
	return fmt.Sprintf("%s%s (%s)", label, subject, detail)
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusWarn:
		return "warn"
	case statusError:
		return "FAIL"
	default:
		return "ok"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ansiGreen
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
