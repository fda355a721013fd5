package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"ankideck/internal/crowdanki"
	"ankideck/internal/deckerr"
)

// Deck is one directory under decks/: its descriptor plus optional overrides
// of the shared fragments.
type Deck struct {
	Dir        string
	Descriptor Descriptor

	DeckOverride   crowdanki.Object
	ConfigOverride crowdanki.Object
	ModelOverride  crowdanki.Object

	css     string
	hasCSS  bool
	desc    string
	hasDesc bool
}

// Stylesheet returns the deck's stylesheet override, else global.
func (d *Deck) Stylesheet(global string) string {
	if d.hasCSS {
		return d.css
	}
	return global
}

// Description returns the deck's description override, else global.
func (d *Deck) Description(global string) string {
	if d.hasDesc {
		return d.desc
	}
	return global
}

// Overrides names the override files present in the deck directory.
func (d *Deck) Overrides() []string {
	var names []string
	if d.DeckOverride != nil {
		names = append(names, DeckFile)
	}
	if d.ConfigOverride != nil {
		names = append(names, ConfigFile)
	}
	if d.ModelOverride != nil {
		names = append(names, ModelFile)
	}
	if d.hasCSS {
		names = append(names, StyleFile)
	}
	if d.hasDesc {
		names = append(names, DeckInfoFile)
	}
	return names
}

// ListDecks returns the deck directory names under decks/, sorted.
func ListDecks(paths Paths) ([]string, error) {
	entries, err := os.ReadDir(paths.Decks())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, deckerr.Wrap(deckerr.ErrIO, paths.Decks(), "list decks", "", err)
	}
	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// LoadDecks loads the named deck directories, or every deck when dirs is
// empty.
func LoadDecks(paths Paths, dirs []string) ([]*Deck, error) {
	if len(dirs) == 0 {
		var err error
		if dirs, err = ListDecks(paths); err != nil {
			return nil, err
		}
	}
	decks := make([]*Deck, 0, len(dirs))
	for _, dir := range dirs {
		deck, err := LoadDeck(paths, dir)
		if err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}
	return decks, nil
}

// LoadDeck reads the deck stored in decks/<dir>.
func LoadDeck(paths Paths, dir string) (*Deck, error) {
	root := paths.Deck(dir)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, deckerr.Wrap(deckerr.ErrMissingFile, dir, "load deck", "deck not found: "+root, nil)
	}

	descriptor, err := ReadDescriptor(filepath.Join(root, DescriptorFile))
	if err != nil {
		return nil, err
	}
	deck := &Deck{Dir: dir, Descriptor: descriptor}
	if deck.DeckOverride, err = readObject(filepath.Join(root, DeckFile), false); err != nil {
		return nil, err
	}
	if deck.ConfigOverride, err = readObject(filepath.Join(root, ConfigFile), false); err != nil {
		return nil, err
	}
	if deck.ModelOverride, err = readObject(filepath.Join(root, ModelFile), false); err != nil {
		return nil, err
	}
	if deck.css, deck.hasCSS, err = readText(filepath.Join(root, StyleFile), false); err != nil {
		return nil, err
	}
	if deck.desc, deck.hasDesc, err = readText(filepath.Join(root, DeckInfoFile), false); err != nil {
		return nil, err
	}
	return deck, nil
}

// ReadDescriptor parses and validates a build.json file.
func ReadDescriptor(path string) (Descriptor, error) {
	data, _, err := readBytes(path, true)
	if err != nil {
		return Descriptor{}, err
	}
	var descriptor Descriptor
	if err := json.Unmarshal(data, &descriptor); err != nil {
		return Descriptor{}, deckerr.Wrap(deckerr.ErrInvalidFormat, path, "parse descriptor", "", err)
	}
	if err := descriptor.Validate(); err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", path, err)
	}
	return descriptor, nil
}
