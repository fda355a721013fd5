package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ankideck/internal/crowdanki"
	"ankideck/internal/datatable"
	"ankideck/internal/deckerr"
)

// Bundle is the set of fragments shared by every deck of a source tree.
// It is loaded once per run and never modified afterwards.
type Bundle struct {
	Paths Paths

	Deck   crowdanki.Object
	Config crowdanki.Object
	Model  crowdanki.Object
	CSS    string
	Desc   string

	Templates     map[string]Template
	FieldDefaults map[string]crowdanki.Object
	// Media lists the file names found in the media directory, sorted.
	Media []string

	Data         *datatable.Table
	DataWarnings []datatable.Warning
}

// Load reads the shared fragments of the source tree at root.
func Load(root string) (*Bundle, error) {
	paths := Paths{Root: root}
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, deckerr.Wrap(deckerr.ErrMissingFile, root, "load source", "source directory not found", nil)
		}
		return nil, deckerr.Wrap(deckerr.ErrIO, root, "load source", "", err)
	}
	if !info.IsDir() {
		return nil, deckerr.Wrap(deckerr.ErrValidation, root, "load source", "source path is not a directory", nil)
	}

	b := &Bundle{Paths: paths}
	if b.Deck, err = readObject(paths.file(DeckFile), true); err != nil {
		return nil, err
	}
	if b.Config, err = readObject(paths.file(ConfigFile), true); err != nil {
		return nil, err
	}
	if b.Model, err = readObject(paths.file(ModelFile), true); err != nil {
		return nil, err
	}
	if b.CSS, _, err = readText(paths.file(StyleFile), true); err != nil {
		return nil, err
	}
	if b.Desc, _, err = readText(paths.file(DescFile), true); err != nil {
		return nil, err
	}
	if b.Templates, err = loadTemplates(filepath.Join(root, TemplatesDir)); err != nil {
		return nil, err
	}
	if b.FieldDefaults, err = loadFieldDefaults(filepath.Join(root, FieldsDir)); err != nil {
		return nil, err
	}
	if b.Media, err = ListFiles(paths.Media()); err != nil {
		return nil, err
	}
	res, err := datatable.ReadFile(paths.Data())
	if err != nil {
		return nil, err
	}
	b.Data = res.Table
	b.DataWarnings = res.Warnings
	return b, nil
}

// TemplateNames returns the loaded template names, sorted.
func (b *Bundle) TemplateNames() []string {
	names := make([]string, 0, len(b.Templates))
	for name := range b.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListFiles returns the names of the regular files directly inside dir,
// sorted. A missing directory yields an empty list.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, deckerr.Wrap(deckerr.ErrIO, dir, "list files", "", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func loadTemplates(dir string) (map[string]Template, error) {
	names, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	templates := make(map[string]Template, len(names))
	for _, file := range names {
		name, ok := strings.CutSuffix(file, TemplateExt)
		if !ok || name == "" {
			continue
		}
		tmpl, err := ReadTemplate(filepath.Join(dir, file))
		if err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}
	return templates, nil
}

func loadFieldDefaults(dir string) (map[string]crowdanki.Object, error) {
	names, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	defaults := make(map[string]crowdanki.Object, len(names))
	for _, file := range names {
		name, ok := strings.CutSuffix(file, FieldDefaultExt)
		if !ok || name == "" {
			continue
		}
		obj, err := readObject(filepath.Join(dir, file), true)
		if err != nil {
			return nil, err
		}
		defaults[name] = obj
	}
	return defaults, nil
}

// readObject parses a JSON object file. When required is false a missing
// file yields a nil object.
func readObject(path string, required bool) (crowdanki.Object, error) {
	data, ok, err := readBytes(path, required)
	if err != nil || !ok {
		return nil, err
	}
	obj, err := crowdanki.DecodeObject(data)
	if err != nil {
		return nil, deckerr.Wrap(deckerr.ErrInvalidFormat, path, "parse json", "", err)
	}
	return obj, nil
}

func readText(path string, required bool) (string, bool, error) {
	data, ok, err := readBytes(path, required)
	return string(data), ok, err
}

func readBytes(path string, required bool) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		if !required {
			return nil, false, nil
		}
		return nil, false, deckerr.Wrap(deckerr.ErrMissingFile, path, "read", fmt.Sprintf("required file %s not found", filepath.Base(path)), nil)
	}
	return nil, false, deckerr.Wrap(deckerr.ErrIO, path, "read", "", err)
}
