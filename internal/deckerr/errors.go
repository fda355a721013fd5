package deckerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind sentinels.
var (
	ErrMissingFile          = errors.New("missing file")
	ErrInvalidFormat        = errors.New("invalid format")
	ErrValidation           = errors.New("validation error")
	ErrIO                   = errors.New("i/o failure")
	ErrUnsupportedCharacter = errors.New("unsupported character")
)

// Validation sub-kinds. Each one also matches ErrValidation.
var (
	ErrUnknownLanguage     = fmt.Errorf("%w: unknown language", ErrValidation)
	ErrMissingField        = fmt.Errorf("%w: missing field", ErrValidation)
	ErrMissingTemplate     = fmt.Errorf("%w: missing template", ErrValidation)
	ErrMissingColumn       = fmt.Errorf("%w: missing column", ErrValidation)
	ErrDuplicateGUID       = fmt.Errorf("%w: duplicate guid", ErrValidation)
	ErrBlankGUID           = fmt.Errorf("%w: blank guid", ErrValidation)
	ErrUnsupportedDocument = fmt.Errorf("%w: unsupported document", ErrValidation)
	ErrEmptyDocument       = fmt.Errorf("%w: empty document", ErrValidation)
)

// Wrap builds an error message that includes the deck or file scope and the
// failing operation while tagging it with marker for later classification.
// The marker should be one of the exported sentinels above.
func Wrap(marker error, scope, operation, message string, err error) error {
	detail := buildDetail(scope, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short label for the error's kind, used as a log attribute.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingFile):
		return "missing_file"
	case errors.Is(err, ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, ErrUnsupportedCharacter):
		return "unsupported_character"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "io"
	}
}

func buildDetail(scope, operation, message string) string {
	parts := make([]string, 0, 3)
	if scope = strings.TrimSpace(scope); scope != "" {
		parts = append(parts, scope)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "deck failure"
	}
	return strings.Join(parts, ": ")
}
