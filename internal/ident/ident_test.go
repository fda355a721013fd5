package ident

import (
	"errors"
	"strings"
	"testing"

	"ankideck/internal/deckerr"
	"ankideck/internal/language"
)

func TestObfuscateRoundTrip(t *testing.T) {
	keys := []string{
		"0190a5f2-7c1e-7b3a-9f00-1234567890ab",
		"k",
		"a-much-longer-key-than-any-row-identifier-in-the-table",
		base91Alphabet,
	}
	rows := []string{
		"g1",
		"Ab3$",
		"O/o+Z`?}X",
		"x",
		base91Alphabet,
	}
	for _, key := range keys {
		for _, row := range rows {
			opaque, err := Obfuscate(row, key)
			if err != nil {
				t.Fatalf("Obfuscate(%q, %q): %v", row, key, err)
			}
			if len(opaque) != len(row) {
				t.Fatalf("Obfuscate changed length: %q -> %q", row, opaque)
			}
			back, err := Deobfuscate(opaque, key)
			if err != nil {
				t.Fatalf("Deobfuscate(%q, %q): %v", opaque, key, err)
			}
			if back != row {
				t.Fatalf("round trip mismatch for key %q: got %q want %q", key, back, row)
			}
			again, err := Obfuscate(back, key)
			if err != nil || again != opaque {
				t.Fatalf("re-obfuscation not stable: %q vs %q (%v)", again, opaque, err)
			}
		}
	}
}

func TestDeobfuscateThenObfuscateIsIdentity(t *testing.T) {
	key := NewGlobalID()
	for i := 0; i < 50; i++ {
		guid := Generate()
		row, err := Deobfuscate(guid, key)
		if err != nil {
			t.Fatalf("Deobfuscate: %v", err)
		}
		opaque, err := Obfuscate(row, key)
		if err != nil {
			t.Fatalf("Obfuscate: %v", err)
		}
		if opaque != guid {
			t.Fatalf("expected %q, got %q", guid, opaque)
		}
	}
}

func TestObfuscateKnownValue(t *testing.T) {
	// 'c' (2) - 'b' (1) = 'b'; 'a' (0) - 'b' (1) wraps to '~' (90).
	got, err := Obfuscate("ca", "bb")
	if err != nil {
		t.Fatalf("Obfuscate: %v", err)
	}
	if got != "b~" {
		t.Fatalf("Obfuscate(ca, bb) = %q, want %q", got, "b~")
	}
	// Key longer than row: both key characters land on position 0.
	got, err = Obfuscate("d", "bb")
	if err != nil {
		t.Fatalf("Obfuscate: %v", err)
	}
	if got != "b" {
		t.Fatalf("Obfuscate(d, bb) = %q, want %q", got, "b")
	}
}

func TestObfuscateRejectsUnknownCharacters(t *testing.T) {
	cases := []struct{ row, key string }{
		{"has space", "key"},
		{"quote\"", "key"},
		{"ok", "bad\\key"},
		{"é", "key"},
	}
	for _, tc := range cases {
		if _, err := Obfuscate(tc.row, tc.key); !errors.Is(err, deckerr.ErrUnsupportedCharacter) {
			t.Fatalf("Obfuscate(%q, %q) error = %v, want ErrUnsupportedCharacter", tc.row, tc.key, err)
		}
		if _, err := Deobfuscate(tc.row, tc.key); !errors.Is(err, deckerr.ErrUnsupportedCharacter) {
			t.Fatalf("Deobfuscate(%q, %q) error = %v, want ErrUnsupportedCharacter", tc.row, tc.key, err)
		}
	}
}

func TestObfuscateEmptyInputs(t *testing.T) {
	if got, err := Obfuscate("", "key"); err != nil || got != "" {
		t.Fatalf("empty row: got %q, %v", got, err)
	}
	if got, err := Obfuscate("row", ""); err != nil || got != "row" {
		t.Fatalf("empty key: got %q, %v", got, err)
	}
}

func TestDeriveForLanguageDefaultIsIdentity(t *testing.T) {
	for _, id := range []string{"", "0190a5f2-7c1e-7b3a-9f00-1234567890ab", "not-hex-at-all"} {
		if got := DeriveForLanguage(id, language.Default); got != id {
			t.Fatalf("DeriveForLanguage(%q, default) = %q", id, got)
		}
	}
}

func TestDeriveForLanguageShiftsHexDigits(t *testing.T) {
	// "fr": 'f' (102) + 'r' (114) = 216, 216 mod 16 = 8.
	if shift := LanguageShift("fr"); shift != 8 {
		t.Fatalf("LanguageShift(fr) = %d, want 8", shift)
	}
	got := DeriveForLanguage("0123-89af", "fr")
	if got != "89ab-0127" {
		t.Fatalf("DeriveForLanguage = %q, want %q", got, "89ab-0127")
	}
	if upper := DeriveForLanguage("0123-89AF", "fr"); upper != got {
		t.Fatalf("uppercase hex should fold: %q vs %q", upper, got)
	}
}

func TestDeriveForLanguageDistinctShifts(t *testing.T) {
	base := NewGlobalID()
	// "fr" shifts by 8, "de" ('d' 100 + 'e' 101 = 201) by 9.
	fr := DeriveForLanguage(base, "fr")
	de := DeriveForLanguage(base, "de")
	if fr == de {
		t.Fatalf("expected distinct identifiers, both %q", fr)
	}
	if fr == base || de == base {
		t.Fatalf("derived identifiers must differ from the default")
	}
	if strings.Count(fr, "-") != strings.Count(base, "-") {
		t.Fatalf("separators must pass through: %q -> %q", base, fr)
	}
}

func TestGenerateUsesBase91Alphabet(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		id := Generate()
		if id == "" || len(id) > 10 {
			t.Fatalf("unexpected guid length %q", id)
		}
		if err := checkAlphabet(id); err != nil {
			t.Fatalf("generated guid outside alphabet: %v", err)
		}
		seen[id] = struct{}{}
	}
	if len(seen) < 199 {
		t.Fatalf("expected unique guids, got %d distinct of 200", len(seen))
	}
}

func TestEncodeBase91(t *testing.T) {
	tests := []struct {
		num  uint64
		want string
	}{
		{0, ""},
		{1, "b"},
		{90, "~"},
		{91, "ba"},
	}
	for _, tt := range tests {
		if got := EncodeBase91(tt.num); got != tt.want {
			t.Errorf("EncodeBase91(%d) = %q, want %q", tt.num, got, tt.want)
		}
	}
}

func TestNewGlobalIDIsTimeOrderedUUID(t *testing.T) {
	a := NewGlobalID()
	b := NewGlobalID()
	if len(a) != 36 || a[14] != '7' {
		t.Fatalf("expected a version 7 UUID, got %q", a)
	}
	if a == b {
		t.Fatal("expected distinct identifiers")
	}
}
