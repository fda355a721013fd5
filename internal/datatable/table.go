package datatable

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"ankideck/internal/deckerr"
	"ankideck/internal/language"
)

const (
	// GUIDColumn holds the per-note identifier.
	GUIDColumn = "guid"
	// TagsColumn holds space separated note tags.
	TagsColumn = "tags"
	// LanguageSeparator splits a header cell into field and language.
	LanguageSeparator = ":"
)

// Row maps a field name to its cell value for one language.
type Row map[string]string

// Projection is the table as seen by one language.
type Projection struct {
	Language string
	// Columns lists the bound field names in sorted order.
	Columns []string
	Rows    []Row
	// Synthesized is set when the file had no data rows and Rows holds a
	// single placeholder row of empty cells.
	Synthesized bool

	columnSet map[string]struct{}
}

// HasColumn reports whether field is bound in this projection.
func (p *Projection) HasColumn(field string) bool {
	_, ok := p.columnSet[field]
	return ok
}

// Values returns the column's values in row order.
func (p *Projection) Values(field string) []string {
	out := make([]string, len(p.Rows))
	for i, row := range p.Rows {
		out[i] = row[field]
	}
	return out
}

// Table is the resolved data file: one projection per language.
type Table struct {
	projections map[string]*Projection
}

// Languages returns every language key, "default" first and the rest sorted.
func (t *Table) Languages() []string {
	langs := make([]string, 0, len(t.projections))
	for lang := range t.projections {
		if lang != language.Default {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	if _, ok := t.projections[language.Default]; ok {
		langs = append([]string{language.Default}, langs...)
	}
	return langs
}

// Projection returns the row set for lang.
func (t *Table) Projection(lang string) (*Projection, bool) {
	p, ok := t.projections[lang]
	return p, ok
}

// Warning is a non-fatal problem found while resolving the header.
type Warning struct {
	Column  string
	Message string
}

// Result bundles the resolved table with any header warnings.
type Result struct {
	Table    *Table
	Warnings []Warning
}

// ReadFile resolves the data file at path.
func ReadFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, deckerr.Wrap(deckerr.ErrMissingFile, path, "read data", "", err)
		}
		return Result{}, deckerr.Wrap(deckerr.ErrIO, path, "read data", "", err)
	}
	res, err := Resolve(bytes.NewReader(data))
	if err != nil {
		return Result{}, deckerr.Wrap(deckerr.ErrInvalidFormat, path, "parse data", "", err)
	}
	return res, nil
}

// Resolve parses CSV content whose first record is the binding header.
func Resolve(r io.Reader) (Result, error) {
	records, err := ReadRecords(r)
	if err != nil {
		return Result{}, err
	}
	if len(records) == 0 {
		return Result{}, errors.New("data file has no header row")
	}

	bindings, warnings := bindHeader(records[0])

	table := &Table{projections: make(map[string]*Projection, len(bindings))}
	for lang, cols := range bindings {
		names := make([]string, 0, len(cols))
		set := make(map[string]struct{}, len(cols))
		for field := range cols {
			names = append(names, field)
			set[field] = struct{}{}
		}
		sort.Strings(names)
		table.projections[lang] = &Projection{Language: lang, Columns: names, columnSet: set}
	}

	for _, record := range records[1:] {
		for lang, cols := range bindings {
			row := make(Row, len(cols))
			for field, idx := range cols {
				if idx < len(record) {
					row[field] = record[idx]
				} else {
					row[field] = ""
				}
			}
			p := table.projections[lang]
			p.Rows = append(p.Rows, row)
		}
	}

	if len(records) == 1 {
		// Keep downstream stages working on at least one row.
		for _, p := range table.projections {
			row := make(Row, len(p.Columns))
			for _, field := range p.Columns {
				row[field] = ""
			}
			p.Rows = []Row{row}
			p.Synthesized = true
		}
	}

	return Result{Table: table, Warnings: warnings}, nil
}

// bindHeader maps language -> field -> column index. Non-default languages
// inherit every default column they do not override.
func bindHeader(header []string) (map[string]map[string]int, []Warning) {
	var warnings []Warning
	bindings := map[string]map[string]int{language.Default: {}}
	for i, cell := range header {
		if i == 0 {
			cell = strings.TrimPrefix(cell, "\ufeff")
		}
		field, lang, tagged := strings.Cut(cell, LanguageSeparator)
		if !tagged {
			bindings[language.Default][cell] = i
			continue
		}
		if field == GUIDColumn {
			warnings = append(warnings, Warning{
				Column:  cell,
				Message: fmt.Sprintf("translating the %q column has no effect on note identity", GUIDColumn),
			})
		}
		if bindings[lang] == nil {
			bindings[lang] = map[string]int{}
		}
		bindings[lang][field] = i
	}
	for lang, cols := range bindings {
		if lang == language.Default {
			continue
		}
		merged := make(map[string]int, len(bindings[language.Default])+len(cols))
		for field, idx := range bindings[language.Default] {
			merged[field] = idx
		}
		for field, idx := range cols {
			merged[field] = idx
		}
		bindings[lang] = merged
	}
	return bindings, warnings
}
