package source

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"ankideck/internal/deckerr"
)

// TemplateSeparator joins the question and answer parts of a template file.
const TemplateSeparator = "\n\n--\n\n"

// templateSplit also accepts CRLF line endings.
var templateSplit = regexp.MustCompile(`\r?\n\r?\n--\r?\n\r?\n`)

// Template is one card template: the question and answer formats.
type Template struct {
	Question string
	Answer   string
}

// ParseTemplate splits template file content at the first separator line.
func ParseTemplate(content string) (Template, error) {
	loc := templateSplit.FindStringIndex(content)
	if loc == nil {
		return Template{}, deckerr.Wrap(deckerr.ErrInvalidFormat, "template", "parse",
			"template must have two parts divided by '--' on a line of its own", nil)
	}
	return Template{Question: content[:loc[0]], Answer: content[loc[1]:]}, nil
}

// Format renders t in the template file layout.
func (t Template) Format() string {
	return t.Question + TemplateSeparator + t.Answer
}

// ReadTemplate loads and parses a template file.
func ReadTemplate(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Template{}, deckerr.Wrap(deckerr.ErrMissingFile, path, "read template", "", nil)
		}
		return Template{}, deckerr.Wrap(deckerr.ErrIO, path, "read template", "", err)
	}
	tmpl, err := ParseTemplate(string(data))
	if err != nil {
		return Template{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return tmpl, nil
}
