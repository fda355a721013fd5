package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ankideck/internal/crowdanki"
	"ankideck/internal/datatable"
	"ankideck/internal/deckerr"
	"ankideck/internal/fileutil"
	"ankideck/internal/ident"
	"ankideck/internal/logging"
	"ankideck/internal/source"
	"ankideck/internal/textutil"
)

// Keys kept from each record of the document.
var (
	deckKeys   = []string{"dyn", "extendNew", "extendRev"}
	configKeys = []string{"autoplay", "dyn", "lapse", "maxTaken", "new", "replayq", "rev", "timer"}
	modelKeys  = []string{"latexPost", "latexPre", "type"}
)

// reservedFieldNames collide with data.csv's own columns.
var reservedFieldNames = []string{datatable.GUIDColumn, datatable.TagsColumn}

// Request describes one import.
type Request struct {
	// Path is the exported deck directory, or the document file itself.
	Path string
	// DeckName overrides the document's deck name.
	DeckName string
	// Force allows overwriting an existing data.csv.
	Force bool
}

// Result reports what an import wrote.
type Result struct {
	DeckName   string
	DeckDir    string
	Descriptor source.Descriptor
	Notes      int
	Media      int
}

// Options configures an Importer.
type Options struct {
	SourceDir string
	Indent    string
	Logger    *slog.Logger
	// NewID mints identifiers; defaults to ident.NewGlobalID.
	NewID func() string
}

// Importer writes export documents into a source tree.
type Importer struct {
	sourceDir string
	indent    string
	newID     func() string
	logger    *slog.Logger
}

// New constructs an Importer.
func New(opts Options) *Importer {
	newID := opts.NewID
	if newID == nil {
		newID = ident.NewGlobalID
	}
	return &Importer{
		sourceDir: opts.SourceDir,
		indent:    opts.Indent,
		newID:     newID,
		logger:    logging.NewComponentLogger(opts.Logger, "importer"),
	}
}

// Import disassembles the document at req.Path into the source tree.
func (im *Importer) Import(ctx context.Context, req Request) (*Result, error) {
	docPath, mediaDir, err := locateDocument(req.Path)
	if err != nil {
		return nil, err
	}
	doc, err := crowdanki.ReadFile(docPath)
	if err != nil {
		return nil, err
	}
	if err := checkShape(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", docPath, err)
	}
	config := doc.Configurations[0]
	model := doc.Models[0]
	fieldNames := model.FieldNames()
	if err := checkNames(fieldNames, model.TemplateNames(), doc.MediaFiles); err != nil {
		return nil, fmt.Errorf("%s: %w", docPath, err)
	}

	w := source.NewWriter(im.sourceDir, im.indent)
	dataPath := w.Paths.Data()
	if !req.Force {
		if _, err := os.Stat(dataPath); err == nil {
			return nil, deckerr.Wrap(deckerr.ErrValidation, dataPath, "import",
				"data.csv already exists; pass --force to overwrite it", nil)
		}
	}

	uuids := source.UUIDs{Deck: im.newID(), Config: im.newID(), Model: im.newID()}
	records, err := dataRecords(doc, fieldNames, uuids.Model)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", docPath, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := w.Prepare(); err != nil {
		return nil, err
	}
	deckFragment := doc.Extra.Pick(deckKeys...)
	deckFragment["children"] = []any{}
	modelFragment := model.Extra.Pick(modelKeys...)
	modelFragment["vers"] = []any{}
	steps := []func() error{
		func() error { return w.WriteObject(source.DeckFile, deckFragment) },
		func() error { return w.WriteObject(source.ConfigFile, config.Extra.Pick(configKeys...)) },
		func() error { return w.WriteObject(source.ModelFile, modelFragment) },
		func() error { return w.WriteText(source.DescFile, doc.Desc) },
		func() error { return w.WriteText(source.StyleFile, model.CSS) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	for _, field := range model.Fields {
		name, _ := field["name"].(string)
		fragment := field.Clone()
		delete(fragment, "name")
		delete(fragment, "ord")
		if err := w.WriteFieldDefault(name, fragment); err != nil {
			return nil, err
		}
	}
	for _, tmpl := range model.Templates {
		if err := w.WriteTemplate(tmpl.Name, source.Template{Question: tmpl.QFmt, Answer: tmpl.AFmt}); err != nil {
			return nil, err
		}
	}

	data, err := datatable.EncodeRecords(records)
	if err != nil {
		return nil, deckerr.Wrap(deckerr.ErrIO, dataPath, "encode data", "", err)
	}
	if err := fileutil.WriteFileAtomic(dataPath, data, 0o644); err != nil {
		return nil, deckerr.Wrap(deckerr.ErrIO, dataPath, "write data", "", err)
	}

	copied, err := im.copyMedia(ctx, doc.MediaFiles, mediaDir, w.Paths.Media())
	if err != nil {
		return nil, err
	}

	name := doc.Name
	if strings.TrimSpace(req.DeckName) != "" {
		name = req.DeckName
	}
	descriptor := source.Descriptor{
		Name:       name,
		ModelName:  model.Name,
		ConfigName: config.Name,
		UUIDs:      uuids,
		Fields:     fieldNames,
		Templates:  model.TemplateNames(),
	}
	dir := textutil.DeckDirName(name)
	if err := w.WriteDescriptor(dir, descriptor); err != nil {
		return nil, err
	}

	im.logger.Info("deck imported",
		logging.String("deck", name),
		logging.String("deck_dir", dir),
		logging.Int("notes", len(doc.Notes)),
		logging.Int("media", copied),
	)
	return &Result{
		DeckName:   name,
		DeckDir:    dir,
		Descriptor: descriptor,
		Notes:      len(doc.Notes),
		Media:      copied,
	}, nil
}

// locateDocument resolves an export directory to <dir>/<basename>.json and
// its media directory. A file path is used as the document directly.
func locateDocument(path string) (string, string, error) {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", deckerr.Wrap(deckerr.ErrMissingFile, path, "import", "export not found", nil)
		}
		return "", "", deckerr.Wrap(deckerr.ErrIO, path, "import", "", err)
	}
	if !info.IsDir() {
		return path, filepath.Join(filepath.Dir(path), source.MediaDir), nil
	}
	return filepath.Join(path, filepath.Base(path)+".json"), filepath.Join(path, source.MediaDir), nil
}

func checkShape(doc *crowdanki.Deck) error {
	configs, models := len(doc.Configurations), len(doc.Models)
	if configs > 1 || models > 1 {
		return deckerr.Wrap(deckerr.ErrUnsupportedDocument, "", "import",
			fmt.Sprintf("document has %d configurations and %d note models; only one of each is supported", configs, models), nil)
	}
	if configs == 0 || models == 0 {
		return deckerr.Wrap(deckerr.ErrEmptyDocument, "", "import",
			"document has no configuration or note model; add at least one card to the deck before exporting", nil)
	}
	return nil
}

// checkNames rejects names that cannot become a single file inside the
// source tree, or a data.csv column that reads back as the same field.
func checkNames(fields, templates, media []string) error {
	for _, name := range fields {
		if isReserved(name) {
			return deckerr.Wrap(deckerr.ErrValidation, "", "import fields",
				fmt.Sprintf("field name %q is reserved; rename it in the deck before importing", name), nil)
		}
		if strings.Contains(name, datatable.LanguageSeparator) {
			return deckerr.Wrap(deckerr.ErrValidation, "", "import fields",
				fmt.Sprintf("field name %q contains %q, which data.csv reads as a language tag; rename it in the deck before importing",
					name, datatable.LanguageSeparator), nil)
		}
		if !isPlainFileName(name) {
			return deckerr.Wrap(deckerr.ErrValidation, "", "import fields",
				fmt.Sprintf("field name %q cannot be used as a file name; rename it in the deck before importing", name), nil)
		}
	}
	for _, name := range templates {
		if !isPlainFileName(name) {
			return deckerr.Wrap(deckerr.ErrValidation, "", "import templates",
				fmt.Sprintf("card template name %q cannot be used as a file name; rename it in the deck before importing", name), nil)
		}
	}
	for _, name := range media {
		if !isPlainFileName(name) {
			return deckerr.Wrap(deckerr.ErrValidation, "", "import media",
				fmt.Sprintf("media file name %q is not a plain file name", name), nil)
		}
	}
	return nil
}

func isPlainFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

func isReserved(name string) bool {
	for _, reserved := range reservedFieldNames {
		if name == reserved {
			return true
		}
	}
	return false
}

// dataRecords renders data.csv: guid, the model's fields, then tags.
func dataRecords(doc *crowdanki.Deck, fieldNames []string, modelID string) ([][]string, error) {
	header := make([]string, 0, len(fieldNames)+2)
	header = append(header, datatable.GUIDColumn)
	header = append(header, fieldNames...)
	header = append(header, datatable.TagsColumn)

	records := make([][]string, 0, len(doc.Notes)+1)
	records = append(records, header)
	for i, note := range doc.Notes {
		guid, err := ident.Deobfuscate(note.GUID, modelID)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i+1, err)
		}
		row := make([]string, 0, len(header))
		row = append(row, guid)
		for j := range fieldNames {
			value := ""
			if j < len(note.Fields) {
				value = note.Fields[j]
			}
			row = append(row, value)
		}
		row = append(row, strings.Join(note.Tags, " "))
		records = append(records, row)
	}
	return records, nil
}

func (im *Importer) copyMedia(ctx context.Context, files []string, from, to string) (int, error) {
	seen := make(map[string]struct{}, len(files))
	for _, name := range files {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if !isPlainFileName(name) {
			return 0, deckerr.Wrap(deckerr.ErrValidation, name, "copy media", "media file name is not a plain file name", nil)
		}
		src := filepath.Join(from, name)
		if _, err := os.Stat(src); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return 0, deckerr.Wrap(deckerr.ErrMissingFile, src, "copy media", "media file listed in the document is missing", nil)
			}
			return 0, deckerr.Wrap(deckerr.ErrIO, src, "copy media", "", err)
		}
		if err := fileutil.CopyFileVerified(src, filepath.Join(to, name)); err != nil {
			return 0, deckerr.Wrap(deckerr.ErrIO, src, "copy media", "", err)
		}
	}
	return len(seen), nil
}
