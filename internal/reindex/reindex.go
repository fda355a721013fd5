// Package reindex repairs the guid column of a data file in place.
package reindex

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"

	"ankideck/internal/datatable"
	"ankideck/internal/deckerr"
	"ankideck/internal/fileutil"
	"ankideck/internal/ident"
)

// Result counts the rows seen and the guids replaced.
type Result struct {
	Rows     int
	Replaced int
}

// Options tunes a reindex pass.
type Options struct {
	// Full replaces every guid, not only blank or duplicate ones.
	Full bool
	// Generate mints guids; defaults to ident.Generate.
	Generate func() string
}

// File rewrites the guid column of the data file at path. A guid is replaced
// when it is blank, repeats a guid of an earlier row, or opts.Full is set.
// The header and every other cell are written back unchanged.
func File(path string, opts Options) (Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, deckerr.Wrap(deckerr.ErrMissingFile, path, "reindex", "", nil)
		}
		return Result{}, deckerr.Wrap(deckerr.ErrIO, path, "reindex", "", err)
	}
	records, err := datatable.ReadRecords(bytes.NewReader(raw))
	if err != nil {
		return Result{}, deckerr.Wrap(deckerr.ErrInvalidFormat, path, "reindex", "", err)
	}
	res, err := Records(records, opts)
	if err != nil {
		return Result{}, deckerr.Wrap(deckerr.ErrMissingColumn, path, "reindex", "", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Result{}, deckerr.Wrap(deckerr.ErrIO, path, "reindex", "", err)
	}
	data, err := datatable.EncodeRecords(records)
	if err != nil {
		return Result{}, deckerr.Wrap(deckerr.ErrIO, path, "reindex", "encode", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, info.Mode().Perm()); err != nil {
		return Result{}, deckerr.Wrap(deckerr.ErrIO, path, "reindex", "write", err)
	}
	return res, nil
}

var errNoGUIDColumn = errors.New(`header has no "guid" column`)

// Records applies the reindex rules to records in place. records[0] is the
// header.
func Records(records [][]string, opts Options) (Result, error) {
	generate := opts.Generate
	if generate == nil {
		generate = ident.Generate
	}
	if len(records) == 0 {
		return Result{}, errNoGUIDColumn
	}
	column := -1
	for i, cell := range records[0] {
		if i == 0 {
			cell = strings.TrimPrefix(cell, "\ufeff")
		}
		if cell == datatable.GUIDColumn {
			column = i
			break
		}
	}
	if column < 0 {
		return Result{}, errNoGUIDColumn
	}

	var res Result
	seen := make(map[string]struct{}, len(records))
	for i := 1; i < len(records); i++ {
		row := records[i]
		for len(row) <= column {
			row = append(row, "")
		}
		guid := row[column]
		_, dup := seen[guid]
		if guid == "" || dup || opts.Full {
			guid = generate()
			for {
				if _, taken := seen[guid]; !taken {
					break
				}
				guid = generate()
			}
			row[column] = guid
			res.Replaced++
		}
		seen[guid] = struct{}{}
		records[i] = row
		res.Rows++
	}
	return res, nil
}
