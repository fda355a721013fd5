package crowdanki

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Record type discriminators.
const (
	TypeDeck       = "Deck"
	TypeDeckConfig = "DeckConfig"
	TypeNoteModel  = "NoteModel"
	TypeNote       = "Note"
)

// Object is an open-ended JSON object.
type Object map[string]any

// Clone returns a shallow copy of o; a nil receiver yields an empty object.
func (o Object) Clone() Object {
	out := make(Object, len(o))
	maps.Copy(out, o)
	return out
}

// Merge returns base overlaid with override; override wins on conflicts.
func Merge(base, override Object) Object {
	out := base.Clone()
	maps.Copy(out, override)
	return out
}

// Pick returns the subset of o restricted to keys.
func (o Object) Pick(keys ...string) Object {
	out := make(Object, len(keys))
	for _, key := range keys {
		if value, ok := o[key]; ok {
			out[key] = value
		}
	}
	return out
}

// Deck is the top-level record of an export document.
type Deck struct {
	UUID           string
	Name           string
	Desc           string
	ConfigUUID     string
	Configurations []Config
	Models         []Model
	Notes          []Note
	MediaFiles     []string
	Extra          Object
}

// Config is an embedded scheduling configuration.
type Config struct {
	UUID  string
	Name  string
	Extra Object
}

// Model is an embedded note type.
type Model struct {
	UUID      string
	Name      string
	CSS       string
	Fields    []Object
	Templates []Template
	Extra     Object
}

// FieldNames returns the model's field names in ordinal order.
func (m Model) FieldNames() []string {
	names := make([]string, len(m.Fields))
	for i, field := range m.Fields {
		names[i], _ = field["name"].(string)
	}
	return names
}

// TemplateNames returns the model's template names in ordinal order.
func (m Model) TemplateNames() []string {
	names := make([]string, len(m.Templates))
	for i, tmpl := range m.Templates {
		names[i] = tmpl.Name
	}
	return names
}

// Template is one card-rendering pair of a model.
type Template struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	QFmt  string `json:"qfmt"`
	AFmt  string `json:"afmt"`
	BQFmt string `json:"bqfmt"`
	BAFmt string `json:"bafmt"`
	DID   any    `json:"did"`
}

// Note is one row of deck content.
type Note struct {
	Data          string   `json:"data"`
	Fields        []string `json:"fields"`
	Flags         int      `json:"flags"`
	GUID          string   `json:"guid"`
	NoteModelUUID string   `json:"note_model_uuid"`
	Tags          []string `json:"tags"`
}

// MarshalJSON emits the note with its type discriminator.
func (n Note) MarshalJSON() ([]byte, error) {
	type plain Note
	if n.Fields == nil {
		n.Fields = []string{}
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return marshal(struct {
		Type string `json:"__type__"`
		plain
	}{TypeNote, plain(n)})
}

// MarshalJSON flattens the typed keys over Extra.
func (d Deck) MarshalJSON() ([]byte, error) {
	out := d.Extra.Clone()
	out["__type__"] = TypeDeck
	out["crowdanki_uuid"] = d.UUID
	out["name"] = d.Name
	out["desc"] = d.Desc
	out["deck_config_uuid"] = d.ConfigUUID
	out["deck_configurations"] = nonNil(d.Configurations)
	out["note_models"] = nonNil(d.Models)
	out["notes"] = nonNil(d.Notes)
	out["media_files"] = nonNil(d.MediaFiles)
	return marshal(out)
}

// UnmarshalJSON splits the record into typed keys and Extra.
func (d *Deck) UnmarshalJSON(data []byte) error {
	raw, err := splitObject(data)
	if err != nil {
		return err
	}
	var decoded Deck
	if err := takeString(raw, "crowdanki_uuid", &decoded.UUID); err != nil {
		return err
	}
	if err := takeString(raw, "name", &decoded.Name); err != nil {
		return err
	}
	if err := takeString(raw, "desc", &decoded.Desc); err != nil {
		return err
	}
	if err := takeString(raw, "deck_config_uuid", &decoded.ConfigUUID); err != nil {
		return err
	}
	for key, dst := range map[string]any{
		"deck_configurations": &decoded.Configurations,
		"note_models":         &decoded.Models,
		"notes":               &decoded.Notes,
		"media_files":         &decoded.MediaFiles,
	} {
		if err := take(raw, key, dst); err != nil {
			return err
		}
	}
	delete(raw, "__type__")
	if decoded.Extra, err = restObject(raw); err != nil {
		return err
	}
	*d = decoded
	return nil
}

// MarshalJSON flattens the typed keys over Extra.
func (c Config) MarshalJSON() ([]byte, error) {
	out := c.Extra.Clone()
	out["__type__"] = TypeDeckConfig
	out["crowdanki_uuid"] = c.UUID
	out["name"] = c.Name
	return marshal(out)
}

// UnmarshalJSON splits the record into typed keys and Extra.
func (c *Config) UnmarshalJSON(data []byte) error {
	raw, err := splitObject(data)
	if err != nil {
		return err
	}
	var decoded Config
	if err := takeString(raw, "crowdanki_uuid", &decoded.UUID); err != nil {
		return err
	}
	if err := takeString(raw, "name", &decoded.Name); err != nil {
		return err
	}
	delete(raw, "__type__")
	if decoded.Extra, err = restObject(raw); err != nil {
		return err
	}
	*c = decoded
	return nil
}

// MarshalJSON flattens the typed keys over Extra.
func (m Model) MarshalJSON() ([]byte, error) {
	out := m.Extra.Clone()
	out["__type__"] = TypeNoteModel
	out["crowdanki_uuid"] = m.UUID
	out["name"] = m.Name
	out["css"] = m.CSS
	out["flds"] = nonNil(m.Fields)
	out["tmpls"] = nonNil(m.Templates)
	return marshal(out)
}

// UnmarshalJSON splits the record into typed keys and Extra.
func (m *Model) UnmarshalJSON(data []byte) error {
	raw, err := splitObject(data)
	if err != nil {
		return err
	}
	var decoded Model
	if err := takeString(raw, "crowdanki_uuid", &decoded.UUID); err != nil {
		return err
	}
	if err := takeString(raw, "name", &decoded.Name); err != nil {
		return err
	}
	if err := takeString(raw, "css", &decoded.CSS); err != nil {
		return err
	}
	if raw["flds"] != nil {
		var fields []json.RawMessage
		if err := json.Unmarshal(raw["flds"], &fields); err != nil {
			return fmt.Errorf("decode flds: %w", err)
		}
		for _, f := range fields {
			obj, err := DecodeObject(f)
			if err != nil {
				return fmt.Errorf("decode field: %w", err)
			}
			decoded.Fields = append(decoded.Fields, obj)
		}
		delete(raw, "flds")
	}
	if err := take(raw, "tmpls", &decoded.Templates); err != nil {
		return err
	}
	delete(raw, "__type__")
	if decoded.Extra, err = restObject(raw); err != nil {
		return err
	}
	*m = decoded
	return nil
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

// marshal encodes without HTML escaping; field values routinely carry markup.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func splitObject(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}
	return raw, nil
}

func take(raw map[string]json.RawMessage, key string, dst any) error {
	value, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	if string(value) == "null" {
		return nil
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func takeString(raw map[string]json.RawMessage, key string, dst *string) error {
	return take(raw, key, dst)
}

func restObject(raw map[string]json.RawMessage) (Object, error) {
	out := make(Object, len(raw))
	for key, value := range raw {
		decoded, err := decodeValue(value)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		out[key] = decoded
	}
	return out, nil
}

// DecodeObject parses a JSON object, keeping numbers as json.Number so they
// re-encode exactly.
func DecodeObject(data []byte) (Object, error) {
	var obj Object
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		obj = Object{}
	}
	return obj, nil
}

func decodeValue(data []byte) (any, error) {
	var value any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}
