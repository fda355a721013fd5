package crowdanki

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"ankideck/internal/deckerr"
)

// DefaultIndent is the indentation used for export documents.
const DefaultIndent = "  "

// Encode writes deck as pretty-printed JSON terminated by a newline.
func Encode(w io.Writer, deck *Deck, indent string) error {
	if indent == "" {
		indent = DefaultIndent
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(deck); err != nil {
		return deckerr.Wrap(deckerr.ErrIO, "document", "encode", "write export document", err)
	}
	return nil
}

// Marshal renders deck the way Encode does.
func Marshal(deck *Deck, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, deck, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads one export document.
func Decode(r io.Reader) (*Deck, error) {
	var deck Deck
	dec := json.NewDecoder(r)
	if err := dec.Decode(&deck); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, deckerr.Wrap(deckerr.ErrInvalidFormat, "document", "decode", "empty export document", nil)
		}
		return nil, deckerr.Wrap(deckerr.ErrInvalidFormat, "document", "decode", "parse export document", err)
	}
	return &deck, nil
}

// ReadFile decodes the export document stored at path.
func ReadFile(path string) (*Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, deckerr.Wrap(deckerr.ErrMissingFile, "document", "open", fmt.Sprintf("export document %s not found", path), nil)
		}
		return nil, deckerr.Wrap(deckerr.ErrIO, "document", "open", path, err)
	}
	defer file.Close()
	deck, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return deck, nil
}
