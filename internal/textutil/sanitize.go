package textutil

import "strings"

// HierarchySeparator splits parent and child deck names.
const HierarchySeparator = "::"

// hierarchyDirSeparator replaces HierarchySeparator in directory names.
const hierarchyDirSeparator = "__"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// DeckDirName converts a deck display name into its directory name.
func DeckDirName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), HierarchySeparator, hierarchyDirSeparator)
	return SanitizeFileName(name)
}

// DeckNameFromDir reverses the hierarchy encoding of DeckDirName.
func DeckNameFromDir(dir string) string {
	return strings.ReplaceAll(dir, hierarchyDirSeparator, HierarchySeparator)
}

// TargetName names the build output directory of one language projection:
// the deck directory for the default language, "<dir>_<lang>" otherwise.
func TargetName(dir, language, defaultLanguage string) string {
	if language == "" || language == defaultLanguage {
		return dir
	}
	return dir + "_" + SanitizeFileName(language)
}

// DisplayName is the deck name shown for a language projection.
func DisplayName(name, language, defaultLanguage string) string {
	return Ternary(language == "" || language == defaultLanguage, name, name+"["+language+"]")
}
