package language

import "testing"

func TestSupported_ClosedSet(t *testing.T) {
	langs := Supported()
	if len(langs) != 20 {
		t.Fatalf("expected 20 supported languages, got %d", len(langs))
	}
	for _, l := range langs {
		if !IsSupported(l) {
			t.Errorf("language %q listed as supported but has no code entry", l)
		}
	}
	if langs[0] != "Arabic" || langs[len(langs)-1] != "Vietnamese" {
		t.Errorf("unexpected ordering: first=%q last=%q", langs[0], langs[len(langs)-1])
	}
}

func TestCode_TableEntries(t *testing.T) {
	cases := map[string]string{
		"English":              "en",
		"French":               "fr",
		"Chinese (Simplified)": "zh",
		"Swedish":              "sv",
		"Japanese":             "ja",
	}
	for name, want := range cases {
		if got := Code(name); got != want {
			t.Errorf("Code(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestCode_FallbackHeuristic(t *testing.T) {
	// Unmapped names get the first two characters lower-cased.
	if got := Code("Klingon"); got != "kl" {
		t.Errorf("Code(Klingon) = %q, want kl", got)
	}
	if got := Code("  Esperanto "); got != "es" {
		t.Errorf("Code with padding = %q, want es", got)
	}
	if got := Code("X"); got != "x" {
		t.Errorf("Code(X) = %q, want x", got)
	}
	if got := Code(""); got != "" {
		t.Errorf("Code(empty) = %q, want empty", got)
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("German") {
		t.Error("German should be supported")
	}
	if IsSupported("german") {
		t.Error("lookup is case-sensitive by design; 'german' must not match")
	}
	if IsSupported("Klingon") {
		t.Error("Klingon must not be supported")
	}
}

func TestAnnotate(t *testing.T) {
	if got := Annotate("French"); got != "French (fr)" {
		t.Errorf("Annotate(French) = %q", got)
	}
	if got := Annotate("Klingon"); got != "Klingon (kl)" {
		t.Errorf("Annotate(Klingon) = %q", got)
	}
}
