package source

import "path/filepath"

// File and directory names of the source tree.
const (
	DeckFile        = "deck.json"
	ConfigFile      = "config.json"
	ModelFile       = "model.json"
	StyleFile       = "style.css"
	DescFile        = "desc.html"
	DataFile        = "data.csv"
	TemplatesDir    = "templates"
	FieldsDir       = "fields"
	MediaDir        = "media"
	DecksDir        = "decks"
	DescriptorFile  = "build.json"
	DeckInfoFile    = "info.html"
	TemplateExt     = ".html"
	FieldDefaultExt = ".json"
)

// Paths resolves locations inside a source tree rooted at Root.
type Paths struct {
	Root string
}

func (p Paths) file(name string) string { return filepath.Join(p.Root, name) }

// Data returns the data file path.
func (p Paths) Data() string { return p.file(DataFile) }

// Media returns the media directory.
func (p Paths) Media() string { return p.file(MediaDir) }

// Decks returns the directory holding per-deck directories.
func (p Paths) Decks() string { return p.file(DecksDir) }

// Deck returns the directory of the deck stored under dir.
func (p Paths) Deck(dir string) string { return filepath.Join(p.Root, DecksDir, dir) }

// Template returns the file holding the named template.
func (p Paths) Template(name string) string {
	return filepath.Join(p.Root, TemplatesDir, name+TemplateExt)
}

// FieldDefault returns the file holding the named field's display defaults.
func (p Paths) FieldDefault(name string) string {
	return filepath.Join(p.Root, FieldsDir, name+FieldDefaultExt)
}
