package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// Identifiers of the fixture deck.
const (
	FixtureDeckDir    = "Spanish__Verbs"
	FixtureDeckName   = "Spanish::Verbs"
	FixtureDeckUUID   = "0190a4c2-7d1e-7a3b-9c4d-5e6f7a8b9c0d"
	FixtureConfigUUID = "0190a4c2-7d1e-7b3b-8c4d-5e6f7a8b9c0e"
	FixtureModelUUID  = "0190a4c2-7d1e-7c3b-8c4d-5e6f7a8b9c0f"
)

// FixtureData is the default data.csv of the fixture tree: two notes with a
// French translation of the Back column.
const FixtureData = "guid,Front,Back,Back:fr,tags\n" +
	"n1,hablar,to speak [sound:hablar.mp3],parler,verb regular\n" +
	"n2,<b>ser</b>,to be,être,verb irregular\n"

// FixtureDescriptor is the build.json of the fixture deck.
const FixtureDescriptor = `{
  "name": "Spanish::Verbs",
  "model_name": "Spanish Basic",
  "config_name": "Spanish",
  "uuids": {
    "deck": "` + FixtureDeckUUID + `",
    "config": "` + FixtureConfigUUID + `",
    "model": "` + FixtureModelUUID + `"
  },
  "fields": ["Front", "Back"],
  "templates": ["Card 1"]
}
`

// TreeOption customizes a fixture source tree.
type TreeOption func(*treeBuilder)

type treeBuilder struct {
	files   map[string]string
	removed map[string]bool
}

// NewSourceTree writes a complete source tree into a temp directory and
// returns its root.
func NewSourceTree(t testing.TB, opts ...TreeOption) string {
	t.Helper()

	builder := &treeBuilder{
		files: map[string]string{
			"deck.json":                               "{\n  \"children\": [],\n  \"dyn\": 0,\n  \"extendNew\": 10\n}\n",
			"config.json":                             "{\n  \"autoplay\": true,\n  \"maxTaken\": 60,\n  \"new\": {\"perDay\": 20}\n}\n",
			"model.json":                              "{\n  \"latexPre\": \"\\\\documentclass{article}\",\n  \"type\": 0,\n  \"vers\": []\n}\n",
			"style.css":                               ".card {\n  font-family: arial;\n}\n",
			"desc.html":                               "Shared <i>description</i>",
			"data.csv":                                FixtureData,
			"templates/Card 1.html":                   "{{Front}}\n\n--\n\n{{FrontSide}}<hr id=answer>{{Back}}",
			"fields/Front.json":                       "{\n  \"size\": 28\n}\n",
			"media/hablar.mp3":                        "mp3",
			"media/unused.png":                        "png",
			"decks/" + FixtureDeckDir + "/build.json": FixtureDescriptor,
		},
		removed: map[string]bool{},
	}
	for _, opt := range opts {
		opt(builder)
	}

	root := filepath.Join(t.TempDir(), "src")
	for rel, content := range builder.files {
		if builder.removed[rel] {
			continue
		}
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

// WithFile sets the content of a file relative to the tree root.
func WithFile(rel, content string) TreeOption {
	return func(b *treeBuilder) {
		b.files[rel] = content
		delete(b.removed, rel)
	}
}

// WithoutFile leaves a fixture file out of the tree.
func WithoutFile(rel string) TreeOption {
	return func(b *treeBuilder) {
		b.removed[rel] = true
	}
}

// WithData replaces data.csv.
func WithData(csv string) TreeOption {
	return WithFile("data.csv", csv)
}

// WithDeck adds a deck directory with the given build.json content.
func WithDeck(dir, descriptor string) TreeOption {
	return WithFile("decks/"+dir+"/build.json", descriptor)
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
