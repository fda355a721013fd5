package source

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"ankideck/internal/crowdanki"
	"ankideck/internal/deckerr"
	"ankideck/internal/fileutil"
)

// Writer emits fragments into a source tree.
type Writer struct {
	Paths  Paths
	Indent string
}

// NewWriter returns a writer rooted at root.
func NewWriter(root, indent string) *Writer {
	if indent == "" {
		indent = crowdanki.DefaultIndent
	}
	return &Writer{Paths: Paths{Root: root}, Indent: indent}
}

// Prepare creates the tree's directory skeleton.
func (w *Writer) Prepare() error {
	for _, dir := range []string{w.Paths.Root, w.Paths.file(TemplatesDir), w.Paths.file(FieldsDir), w.Paths.Media(), w.Paths.Decks()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return deckerr.Wrap(deckerr.ErrIO, dir, "create directory", "", err)
		}
	}
	return nil
}

// WriteObject writes obj as the root-level JSON fragment name.
func (w *Writer) WriteObject(name string, obj crowdanki.Object) error {
	return w.writeJSON(w.Paths.file(name), obj)
}

// WriteText writes a root-level text fragment verbatim.
func (w *Writer) WriteText(name, text string) error {
	return w.write(w.Paths.file(name), []byte(text))
}

// WriteFieldDefault writes the display defaults of one field.
func (w *Writer) WriteFieldDefault(name string, obj crowdanki.Object) error {
	return w.writeJSON(w.Paths.FieldDefault(name), obj)
}

// WriteTemplate writes one template file.
func (w *Writer) WriteTemplate(name string, tmpl Template) error {
	return w.write(w.Paths.Template(name), []byte(tmpl.Format()))
}

// WriteDescriptor writes decks/<dir>/build.json, creating the deck directory.
func (w *Writer) WriteDescriptor(dir string, descriptor Descriptor) error {
	root := w.Paths.Deck(dir)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return deckerr.Wrap(deckerr.ErrIO, root, "create directory", "", err)
	}
	return WriteDescriptor(filepath.Join(root, DescriptorFile), descriptor, w.Indent)
}

// WriteDescriptor atomically replaces the descriptor at path.
func WriteDescriptor(path string, descriptor Descriptor, indent string) error {
	data, err := EncodeJSON(descriptor, indent)
	if err != nil {
		return deckerr.Wrap(deckerr.ErrIO, path, "encode descriptor", "", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return deckerr.Wrap(deckerr.ErrIO, path, "write descriptor", "", err)
	}
	return nil
}

// EncodeJSON renders v as indented JSON without HTML escaping, followed by a
// newline.
func EncodeJSON(v any, indent string) ([]byte, error) {
	if indent == "" {
		indent = crowdanki.DefaultIndent
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *Writer) writeJSON(path string, v any) error {
	data, err := EncodeJSON(v, w.Indent)
	if err != nil {
		return deckerr.Wrap(deckerr.ErrIO, path, "encode json", "", err)
	}
	return w.write(path, data)
}

func (w *Writer) write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return deckerr.Wrap(deckerr.ErrIO, path, "write", "", err)
	}
	return nil
}
