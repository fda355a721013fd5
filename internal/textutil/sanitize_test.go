package textutil

import "testing"

func TestDeckDirName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Spanish", want: "Spanish"},
		{name: "Spanish::Verbs", want: "Spanish__Verbs"},
		{name: "  Lang::A/B  ", want: "Lang__A-B"},
		{name: "Why?", want: "Why"},
		{name: "", want: ""},
	}
	for _, tc := range tests {
		if got := DeckDirName(tc.name); got != tc.want {
			t.Errorf("DeckDirName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDeckNameFromDirInvertsHierarchy(t *testing.T) {
	if got := DeckNameFromDir(DeckDirName("Spanish::Verbs::Irregular")); got != "Spanish::Verbs::Irregular" {
		t.Fatalf("round trip = %q", got)
	}
}

func TestTargetAndDisplayName(t *testing.T) {
	if got := TargetName("Spanish", "default", "default"); got != "Spanish" {
		t.Fatalf("default target = %q", got)
	}
	if got := TargetName("Spanish", "fr", "default"); got != "Spanish_fr" {
		t.Fatalf("fr target = %q", got)
	}
	if got := DisplayName("Spanish", "default", "default"); got != "Spanish" {
		t.Fatalf("default display = %q", got)
	}
	if got := DisplayName("Spanish", "fr", "default"); got != "Spanish[fr]" {
		t.Fatalf("fr display = %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName(` a:b*c?"<>| `); got != "a-b-c" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
}
