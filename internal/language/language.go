package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Default is the projection built from untagged columns.
const Default = "default"

var englishNames = display.English.Tags()

// Info describes one projection tag.
type Info struct {
	// Tag is the tag as written in the data file.
	Tag string
	// Canonical is the BCP 47 form of Tag, empty when Tag does not parse.
	Canonical string
	// Display is a human-readable English name.
	Display string
	// Valid reports whether Tag is the default projection or a BCP 47 tag.
	Valid bool
}

// Describe returns display information for tag.
func Describe(tag string) Info {
	info := Info{Tag: tag}
	trimmed := strings.TrimSpace(tag)
	if trimmed == Default {
		info.Display = cases.Title(xlanguage.English).String(Default)
		info.Valid = true
		return info
	}
	parsed, err := xlanguage.Parse(trimmed)
	if err != nil {
		info.Display = trimmed
		return info
	}
	info.Canonical = parsed.String()
	info.Valid = true
	if name := englishNames.Name(parsed); name != "" {
		info.Display = name
	} else {
		info.Display = info.Canonical
	}
	return info
}

// DescribeAll describes every tag in order.
func DescribeAll(tags []string) []Info {
	out := make([]Info, len(tags))
	for i, tag := range tags {
		out[i] = Describe(tag)
	}
	return out
}
