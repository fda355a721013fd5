package builder

import "strings"

// MediaScanner finds the media files referenced by a field value.
type MediaScanner interface {
	Scan(value string, media []string) []string
}

// SubstringScanner reports every media file whose name occurs anywhere in
// the value. A file whose name is contained in another file's name matches
// too.
type SubstringScanner struct{}

// Scan implements MediaScanner.
func (SubstringScanner) Scan(value string, media []string) []string {
	if value == "" {
		return nil
	}
	var matches []string
	for _, name := range media {
		if strings.Contains(value, name) {
			matches = append(matches, name)
		}
	}
	return matches
}
