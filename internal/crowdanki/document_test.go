package crowdanki

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ankideck/internal/deckerr"
)

const sampleDocument = `{
  "__type__": "Deck",
  "children": [],
  "crowdanki_uuid": "deck-1",
  "deck_config_uuid": "conf-1",
  "deck_configurations": [
    {"__type__": "DeckConfig", "crowdanki_uuid": "conf-1", "name": "Default", "autoplay": true, "new": {"perDay": 20}}
  ],
  "desc": "<b>Verbs</b>",
  "dyn": 0,
  "extendNew": 10,
  "media_files": ["a.mp3"],
  "name": "Spanish",
  "note_models": [
    {
      "__type__": "NoteModel",
      "crowdanki_uuid": "model-1",
      "css": ".card {}",
      "flds": [{"name": "Front", "ord": 0, "font": "Arial"}, {"name": "Back", "ord": 1}],
      "latexPre": "\\begin{document}",
      "name": "Basic",
      "tmpls": [{"name": "Card 1", "ord": 0, "qfmt": "{{Front}}", "afmt": "{{Back}}", "bqfmt": "", "bafmt": "", "did": null}],
      "sortf": 0
    }
  ],
  "notes": [
    {"__type__": "Note", "data": "", "fields": ["hola", "hello [sound:a.mp3]"], "flags": 0, "guid": "g&1", "note_model_uuid": "model-1", "tags": ["verb"]}
  ]
}`

func TestDecodeSplitsKnownAndExtraKeys(t *testing.T) {
	deck, err := Decode(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if deck.UUID != "deck-1" || deck.Name != "Spanish" || deck.ConfigUUID != "conf-1" {
		t.Fatalf("unexpected deck header: %+v", deck)
	}
	if _, ok := deck.Extra["__type__"]; ok {
		t.Fatal("type discriminator leaked into Extra")
	}
	if got := deck.Extra["extendNew"]; got != json.Number("10") {
		t.Fatalf("extendNew = %#v", got)
	}
	if len(deck.Configurations) != 1 || deck.Configurations[0].Name != "Default" {
		t.Fatalf("configurations = %+v", deck.Configurations)
	}
	if deck.Configurations[0].Extra["autoplay"] != true {
		t.Fatalf("config extra = %+v", deck.Configurations[0].Extra)
	}
	model := deck.Models[0]
	if got := strings.Join(model.FieldNames(), ","); got != "Front,Back" {
		t.Fatalf("field names = %q", got)
	}
	if got := strings.Join(model.TemplateNames(), ","); got != "Card 1" {
		t.Fatalf("template names = %q", got)
	}
	if model.Templates[0].QFmt != "{{Front}}" || model.Extra["sortf"] != json.Number("0") {
		t.Fatalf("unexpected model: %+v", model)
	}
	if len(deck.Notes) != 1 || deck.Notes[0].GUID != "g&1" || deck.Notes[0].Tags[0] != "verb" {
		t.Fatalf("notes = %+v", deck.Notes)
	}
}

func TestEncodeRoundTripsAndKeepsMarkup(t *testing.T) {
	deck, err := Decode(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	data, err := Marshal(deck, "")
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"desc": "<b>Verbs</b>"`, `"guid": "g&1"`, `"__type__": "Note"`, `"__type__": "NoteModel"`, `"__type__": "DeckConfig"`, "\n  \"children\": []"} {
		if !strings.Contains(text, want) {
			t.Fatalf("encoded document missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, `\u003c`) || strings.Contains(text, `\u0026`) {
		t.Fatalf("markup was escaped:\n%s", text)
	}

	again, err := Decode(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Decode re-encoded: %v", err)
	}
	second, err := Marshal(again, "")
	if err != nil {
		t.Fatalf("Marshal again: %v", err)
	}
	if string(second) != text {
		t.Fatalf("encoding not stable:\n%s\n---\n%s", text, second)
	}
}

func TestEncodeEmitsEmptyListsForNilSlices(t *testing.T) {
	deck := &Deck{
		UUID:  "d",
		Name:  "Empty",
		Notes: []Note{{GUID: "x"}},
	}
	data, err := Marshal(deck, "\t")
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"media_files": []`, `"note_models": []`, `"tags": []`, `"fields": []`} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
	if !strings.HasSuffix(text, "}\n") {
		t.Fatalf("document should end with newline")
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "truncated", input: `{"name": `},
		{name: "wrong type", input: `{"notes": 5}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.input))
			if !errors.Is(err, deckerr.ErrInvalidFormat) {
				t.Fatalf("expected invalid format, got %v", err)
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, deckerr.ErrMissingFile) {
		t.Fatalf("expected missing file, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.json")
	if err := os.WriteFile(path, []byte(sampleDocument), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	deck, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if deck.MediaFiles[0] != "a.mp3" {
		t.Fatalf("media files = %v", deck.MediaFiles)
	}
}

func TestMergeAndPick(t *testing.T) {
	base := Object{"a": 1, "b": 2}
	merged := Merge(base, Object{"b": 3, "c": 4})
	if merged["a"] != 1 || merged["b"] != 3 || merged["c"] != 4 {
		t.Fatalf("merged = %v", merged)
	}
	if base["b"] != 2 {
		t.Fatal("Merge mutated base")
	}
	picked := merged.Pick("a", "missing")
	if len(picked) != 1 || picked["a"] != 1 {
		t.Fatalf("picked = %v", picked)
	}
}
