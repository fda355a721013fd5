// Package duplicator clones a deck directory of a source tree under a new
// name with fresh deck, config and model identifiers.
package duplicator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"ankideck/internal/deckerr"
	"ankideck/internal/fileutil"
	"ankideck/internal/ident"
	"ankideck/internal/logging"
	"ankideck/internal/source"
	"ankideck/internal/textutil"
)

// Options configures a Duplicator.
type Options struct {
	SourceDir string
	Indent    string
	Logger    *slog.Logger
	// NewID mints identifiers; defaults to ident.NewGlobalID.
	NewID func() string
}

// Duplicator copies decks within one source tree.
type Duplicator struct {
	paths  source.Paths
	indent string
	newID  func() string
	logger *slog.Logger
}

// New constructs a Duplicator.
func New(opts Options) *Duplicator {
	newID := opts.NewID
	if newID == nil {
		newID = ident.NewGlobalID
	}
	return &Duplicator{
		paths:  source.Paths{Root: opts.SourceDir},
		indent: opts.Indent,
		newID:  newID,
		logger: logging.NewComponentLogger(opts.Logger, "duplicator"),
	}
}

// Result describes the created deck.
type Result struct {
	DeckName   string
	DeckDir    string
	Descriptor source.Descriptor
}

// Copy duplicates the deck named src. When dst is empty the copy is named
// "<src> (n)" with the smallest n not already taken.
func (d *Duplicator) Copy(src, dst string) (*Result, error) {
	srcDir := textutil.DeckDirName(src)
	srcPath := d.paths.Deck(srcDir)
	if info, err := os.Stat(srcPath); err != nil || !info.IsDir() {
		return nil, deckerr.Wrap(deckerr.ErrMissingFile, src, "copy deck", "source deck not found: "+srcPath, nil)
	}
	descriptor, err := source.ReadDescriptor(filepath.Join(srcPath, source.DescriptorFile))
	if err != nil {
		return nil, err
	}

	name, dstDir, err := d.destination(src, srcDir, dst, descriptor.Name)
	if err != nil {
		return nil, err
	}
	dstPath := d.paths.Deck(dstDir)
	if err := fileutil.CopyTree(srcPath, dstPath); err != nil {
		return nil, deckerr.Wrap(deckerr.ErrIO, dstPath, "copy deck", "", err)
	}

	descriptor.Name = name
	descriptor.UUIDs = source.UUIDs{
		Deck:   d.newID(),
		Config: d.newID(),
		Model:  d.newID(),
	}
	if err := source.WriteDescriptor(filepath.Join(dstPath, source.DescriptorFile), descriptor, d.indent); err != nil {
		return nil, err
	}

	d.logger.Info("deck copied",
		logging.String("from", srcDir),
		logging.String("to", dstDir),
		logging.String("deck", name),
	)
	return &Result{DeckName: name, DeckDir: dstDir, Descriptor: descriptor}, nil
}

func (d *Duplicator) destination(src, srcDir, dst, srcName string) (string, string, error) {
	if dst != "" {
		dir := textutil.DeckDirName(dst)
		exists, err := pathExists(d.paths.Deck(dir))
		if err != nil {
			return "", "", deckerr.Wrap(deckerr.ErrIO, dst, "copy deck", "", err)
		}
		if exists {
			return "", "", deckerr.Wrap(deckerr.ErrValidation, dst, "copy deck", "destination deck already exists", nil)
		}
		return dst, dir, nil
	}
	for n := 1; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		dir := srcDir + suffix
		exists, err := pathExists(d.paths.Deck(dir))
		if err != nil {
			return "", "", deckerr.Wrap(deckerr.ErrIO, src, "copy deck", "", err)
		}
		if !exists {
			return srcName + suffix, dir, nil
		}
	}
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
