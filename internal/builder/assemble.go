package builder

import (
	"fmt"
	"strings"

	"ankideck/internal/crowdanki"
	"ankideck/internal/datatable"
	"ankideck/internal/deckerr"
	"ankideck/internal/ident"
	"ankideck/internal/language"
	"ankideck/internal/source"
	"ankideck/internal/textutil"
)

// fieldDefaults are the display attributes every field starts from before
// fields/<name>.json is applied.
var fieldDefaults = crowdanki.Object{
	"font":   "Arial",
	"media":  []any{},
	"rtl":    false,
	"size":   20,
	"sticky": false,
}

// Assembly is one export document ready to publish.
type Assembly struct {
	DeckDir  string
	Language string
	// Target is the output directory name.
	Target   string
	Document *crowdanki.Deck
	Warnings []string
}

// Assemble builds the export document of deck for one language projection.
func Assemble(bundle *source.Bundle, deck *source.Deck, lang string, scanner MediaScanner) (*Assembly, error) {
	if scanner == nil {
		scanner = SubstringScanner{}
	}
	scope := fmt.Sprintf("%s (%s)", deck.Descriptor.Name, lang)
	projection, ok := bundle.Data.Projection(lang)
	if !ok {
		return nil, deckerr.Wrap(deckerr.ErrUnknownLanguage, scope, "assemble", fmt.Sprintf("language %q is not available", lang), nil)
	}

	d := deck.Descriptor
	deckID := ident.DeriveForLanguage(d.UUIDs.Deck, lang)
	configID := ident.DeriveForLanguage(d.UUIDs.Config, lang)
	modelID := ident.DeriveForLanguage(d.UUIDs.Model, lang)

	var warnings []string
	if lang != language.Default && ident.LanguageShift(lang) == 0 {
		warnings = append(warnings, fmt.Sprintf("language %q derives the same identifiers as %q; importing both projections will collide", lang, language.Default))
	}

	fields, err := resolveFields(bundle, projection, d.Fields)
	if err != nil {
		return nil, deckerr.Wrap(deckerr.ErrMissingField, scope, "resolve fields", "", err)
	}
	templates, err := resolveTemplates(bundle, d.Templates)
	if err != nil {
		return nil, deckerr.Wrap(deckerr.ErrMissingTemplate, scope, "resolve templates", "", err)
	}
	rows := projection.Rows
	guids := projection.Values(datatable.GUIDColumn)
	if projection.Synthesized {
		// A header-only data file builds an empty deck.
		rows, guids = nil, nil
	}
	if err := checkGUIDs(projection, guids); err != nil {
		return nil, fmt.Errorf("%s: %w", scope, err)
	}

	notes := make([]crowdanki.Note, 0, len(rows))
	var media []string
	for _, row := range rows {
		guid, err := ident.Obfuscate(row[datatable.GUIDColumn], d.UUIDs.Model)
		if err != nil {
			return nil, fmt.Errorf("%s: note %q: %w", scope, row[datatable.GUIDColumn], err)
		}
		values := make([]string, len(d.Fields))
		for i, field := range d.Fields {
			values[i] = row[field]
			media = append(media, scanner.Scan(values[i], bundle.Media)...)
		}
		tags := []string{}
		if projection.HasColumn(datatable.TagsColumn) {
			tags = strings.Fields(row[datatable.TagsColumn])
		}
		notes = append(notes, crowdanki.Note{
			Fields:        values,
			GUID:          guid,
			NoteModelUUID: modelID,
			Tags:          tags,
		})
	}
	if media == nil {
		media = []string{}
	}

	doc := &crowdanki.Deck{
		UUID:       deckID,
		Name:       textutil.DisplayName(d.Name, lang, language.Default),
		Desc:       deck.Description(bundle.Desc),
		ConfigUUID: configID,
		Configurations: []crowdanki.Config{{
			UUID:  configID,
			Name:  d.EffectiveConfigName(),
			Extra: crowdanki.Merge(bundle.Config, deck.ConfigOverride),
		}},
		Models: []crowdanki.Model{{
			UUID:      modelID,
			Name:      d.EffectiveModelName(),
			CSS:       deck.Stylesheet(bundle.CSS),
			Fields:    fields,
			Templates: templates,
			Extra:     crowdanki.Merge(bundle.Model, deck.ModelOverride),
		}},
		Notes:      notes,
		MediaFiles: media,
		Extra:      crowdanki.Merge(bundle.Deck, deck.DeckOverride),
	}

	return &Assembly{
		DeckDir:  deck.Dir,
		Language: lang,
		Target:   textutil.TargetName(deck.Dir, lang, language.Default),
		Document: doc,
		Warnings: warnings,
	}, nil
}

func resolveFields(bundle *source.Bundle, projection *datatable.Projection, names []string) ([]crowdanki.Object, error) {
	fields := make([]crowdanki.Object, 0, len(names))
	for ord, name := range names {
		if !projection.HasColumn(name) {
			return nil, fmt.Errorf("field %q is not a column of data.csv for language %q", name, projection.Language)
		}
		field := crowdanki.Merge(fieldDefaults, bundle.FieldDefaults[name])
		field["name"] = name
		field["ord"] = ord
		fields = append(fields, field)
	}
	return fields, nil
}

func resolveTemplates(bundle *source.Bundle, names []string) ([]crowdanki.Template, error) {
	templates := make([]crowdanki.Template, 0, len(names))
	for ord, name := range names {
		tmpl, ok := bundle.Templates[name]
		if !ok {
			return nil, fmt.Errorf("template %q not found in templates/", name)
		}
		templates = append(templates, crowdanki.Template{
			Name: name,
			Ord:  ord,
			QFmt: tmpl.Question,
			AFmt: tmpl.Answer,
		})
	}
	return templates, nil
}

func checkGUIDs(projection *datatable.Projection, guids []string) error {
	if !projection.HasColumn(datatable.GUIDColumn) {
		return deckerr.Wrap(deckerr.ErrMissingColumn, "data.csv", "check guids", `required "guid" column is missing`, nil)
	}
	seen := make(map[string]int, len(guids))
	for i, guid := range guids {
		row := i + 1
		if guid == "" {
			return deckerr.Wrap(deckerr.ErrBlankGUID, "data.csv", "check guids",
				fmt.Sprintf("row %d has no guid; run \"ankideck index\" to fill it", row), nil)
		}
		if first, dup := seen[guid]; dup {
			return deckerr.Wrap(deckerr.ErrDuplicateGUID, "data.csv", "check guids",
				fmt.Sprintf("rows %d and %d share guid %q; run \"ankideck index\" to fix", first, row, guid), nil)
		}
		seen[guid] = row
	}
	return nil
}
