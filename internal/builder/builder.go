package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"ankideck/internal/crowdanki"
	"ankideck/internal/deckerr"
	"ankideck/internal/fileutil"
	"ankideck/internal/logging"
	"ankideck/internal/source"
)

// Request selects what to build.
type Request struct {
	// Decks names deck directories under decks/; empty builds every deck.
	Decks []string
	// Language restricts the build to one projection; empty builds all.
	Language string
	// KeepGoing continues with the remaining pairs after a failure.
	KeepGoing bool
}

// Options configures a Builder.
type Options struct {
	SourceDir string
	BuildDir  string
	Indent    string
	Scanner   MediaScanner
	Logger    *slog.Logger
}

// Builder assembles and publishes export documents.
type Builder struct {
	sourceDir string
	buildDir  string
	indent    string
	scanner   MediaScanner
	logger    *slog.Logger
}

// New constructs a Builder.
func New(opts Options) *Builder {
	scanner := opts.Scanner
	if scanner == nil {
		scanner = SubstringScanner{}
	}
	return &Builder{
		sourceDir: opts.SourceDir,
		buildDir:  opts.BuildDir,
		indent:    opts.Indent,
		scanner:   scanner,
		logger:    logging.NewComponentLogger(opts.Logger, "builder"),
	}
}

// Result describes one (deck, language) build.
type Result struct {
	Deck     string
	DeckDir  string
	Language string
	Target   string
	Path     string
	Notes    int
	Media    int
	Warnings []string
	Err      error
}

// Report summarizes a build run.
type Report struct {
	Languages []string
	Results   []Result
	// UnusedMedia lists media files no built deck references.
	UnusedMedia []string
	// Warnings collects non-fatal findings not tied to one result.
	Warnings []string
}

// Failed counts the results that carry an error.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Build assembles every requested (deck, language) pair. Without KeepGoing
// the first failure stops the run; with it, failures are recorded on their
// results and joined into the returned error once every pair was attempted.
func (b *Builder) Build(ctx context.Context, req Request) (*Report, error) {
	bundle, err := source.Load(b.sourceDir)
	if err != nil {
		return nil, err
	}
	report := &Report{}
	for _, w := range bundle.DataWarnings {
		msg := fmt.Sprintf("data.csv column %q: %s", w.Column, w.Message)
		report.Warnings = append(report.Warnings, msg)
		logging.WarnWithContext(b.logger, "data file warning", "data_header_warning",
			logging.String("column", w.Column),
			logging.String("reason", w.Message),
			logging.String(logging.FieldErrorHint, "bind the guid column without a language suffix"),
			logging.String(logging.FieldImpact, "the column is ignored for that language"),
		)
	}

	languages, err := resolveLanguages(bundle, req.Language)
	if err != nil {
		return nil, err
	}
	report.Languages = languages

	decks, err := source.LoadDecks(bundle.Paths, req.Decks)
	if err != nil {
		return nil, err
	}
	if len(decks) == 0 {
		return nil, deckerr.Wrap(deckerr.ErrMissingFile, b.sourceDir, "build", "no decks found under decks/", nil)
	}

	referenced := make(map[string]struct{})
	var failures []error
	for _, language := range languages {
		for _, deck := range decks {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			res := b.buildOne(bundle, deck, language, referenced)
			report.Results = append(report.Results, res)
			if res.Err == nil {
				continue
			}
			logging.ErrorWithContext(b.logger, "deck build failed", "deck_build_failed",
				logging.String("deck", res.Deck),
				logging.String("language", language),
				logging.String(logging.FieldErrorKind, deckerr.Kind(res.Err)),
				logging.Error(res.Err),
			)
			if !req.KeepGoing {
				return report, res.Err
			}
			failures = append(failures, res.Err)
		}
	}

	for _, name := range bundle.Media {
		if _, ok := referenced[name]; !ok {
			report.UnusedMedia = append(report.UnusedMedia, name)
		}
	}
	if len(report.UnusedMedia) > 0 && len(failures) == 0 {
		logging.WarnWithContext(b.logger, "unused media files", "unused_media",
			logging.Int("count", len(report.UnusedMedia)),
			logging.Any("files", report.UnusedMedia),
			logging.String(logging.FieldErrorHint, "remove the files from media/ or reference them from data.csv"),
			logging.String(logging.FieldImpact, "files are not copied into any build"),
		)
	}

	if len(failures) > 0 {
		return report, fmt.Errorf("%d of %d deck builds failed: %w", len(failures), len(report.Results), errors.Join(failures...))
	}
	return report, nil
}

func (b *Builder) buildOne(bundle *source.Bundle, deck *source.Deck, language string, referenced map[string]struct{}) Result {
	res := Result{Deck: deck.Descriptor.Name, DeckDir: deck.Dir, Language: language}
	assembly, err := Assemble(bundle, deck, language, b.scanner)
	if err != nil {
		res.Err = err
		return res
	}
	res.Target = assembly.Target
	res.Warnings = assembly.Warnings
	for _, w := range assembly.Warnings {
		logging.WarnWithContext(b.logger, "deck build warning", "deck_build_warning",
			logging.String("deck", res.Deck),
			logging.String("language", language),
			logging.String("reason", w),
		)
	}

	path, err := b.publish(bundle, assembly)
	if err != nil {
		res.Err = err
		return res
	}
	res.Path = path
	res.Notes = len(assembly.Document.Notes)
	res.Media = len(assembly.Document.MediaFiles)
	for _, name := range assembly.Document.MediaFiles {
		referenced[name] = struct{}{}
	}
	b.logger.Info("deck built",
		logging.String("deck", res.Deck),
		logging.String("language", language),
		logging.String("target", res.Target),
		logging.Int("notes", res.Notes),
		logging.Int("media", res.Media),
	)
	return res
}

// publish writes the document and its media into a staging directory and
// swaps it in for the target. It returns the document path.
func (b *Builder) publish(bundle *source.Bundle, assembly *Assembly) (string, error) {
	target := filepath.Join(b.buildDir, assembly.Target)
	staged, err := fileutil.StageDir(target)
	if err != nil {
		return "", deckerr.Wrap(deckerr.ErrIO, assembly.Target, "stage output", "", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(staged)
		}
	}()

	data, err := crowdanki.Marshal(assembly.Document, b.indent)
	if err != nil {
		return "", err
	}
	docName := assembly.Target + ".json"
	if err := os.WriteFile(filepath.Join(staged, docName), data, 0o644); err != nil {
		return "", deckerr.Wrap(deckerr.ErrIO, assembly.Target, "write document", "", err)
	}

	mediaDir := filepath.Join(staged, source.MediaDir)
	if err := os.Mkdir(mediaDir, 0o755); err != nil {
		return "", deckerr.Wrap(deckerr.ErrIO, assembly.Target, "create media directory", "", err)
	}
	copied := make([]string, 0, len(assembly.Document.MediaFiles))
	for _, name := range assembly.Document.MediaFiles {
		if slices.Contains(copied, name) {
			continue
		}
		src := filepath.Join(bundle.Paths.Media(), name)
		if err := fileutil.CopyFileVerified(src, filepath.Join(mediaDir, name)); err != nil {
			return "", deckerr.Wrap(deckerr.ErrIO, assembly.Target, "copy media", name, err)
		}
		copied = append(copied, name)
	}

	if err := fileutil.Publish(staged, target); err != nil {
		return "", deckerr.Wrap(deckerr.ErrIO, assembly.Target, "publish", "", err)
	}
	committed = true
	return filepath.Join(target, docName), nil
}

func resolveLanguages(bundle *source.Bundle, requested string) ([]string, error) {
	available := bundle.Data.Languages()
	if requested == "" {
		return available, nil
	}
	if !slices.Contains(available, requested) {
		return nil, deckerr.Wrap(deckerr.ErrUnknownLanguage, "data.csv", "resolve language",
			fmt.Sprintf("language %q is not available (have %v)", requested, available), nil)
	}
	return []string{requested}, nil
}
