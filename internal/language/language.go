// Package language holds the closed set of languages the service translates
// between and the short codes used to annotate prompts.
package language

import "strings"

// supported is the full set offered at the API boundary, in display order.
// Names are human-readable, not ISO codes.
var supported = []string{
	"Arabic", "Chinese (Simplified)", "Czech", "Dutch", "English",
	"French", "German", "Hindi", "Italian", "Japanese", "Korean",
	"Polish", "Portuguese", "Russian", "Spanish", "Swedish",
	"Thai", "Turkish", "Ukrainian", "Vietnamese",
}

// codes maps every supported name to its short code for prompt annotation.
var codes = map[string]string{
	"Arabic":               "ar",
	"Chinese (Simplified)": "zh",
	"Czech":                "cs",
	"Dutch":                "nl",
	"English":              "en",
	"French":               "fr",
	"German":               "de",
	"Hindi":                "hi",
	"Italian":              "it",
	"Japanese":             "ja",
	"Korean":               "ko",
	"Polish":               "pl",
	"Portuguese":           "pt",
	"Russian":              "ru",
	"Spanish":              "es",
	"Swedish":              "sv",
	"Thai":                 "th",
	"Turkish":              "tr",
	"Ukrainian":            "uk",
	"Vietnamese":           "vi",
}

// Supported returns the supported language names in display order. The caller
// must not mutate the returned slice.
func Supported() []string {
	return supported
}

// IsSupported reports whether name is one of the supported languages.
func IsSupported(name string) bool {
	_, ok := codes[name]
	return ok
}

// Code returns the short code for a language name. Unknown names fall back to
// the first two characters lower-cased; that is a best-effort heuristic for
// display and prompt annotation only, not a correctness guarantee.
func Code(name string) string {
	if c, ok := codes[name]; ok {
		return c
	}
	trimmed := strings.TrimSpace(name)
	r := []rune(strings.ToLower(trimmed))
	if len(r) < 2 {
		return string(r)
	}
	return string(r[:2])
}

// Annotate renders a language for inclusion in a prompt, e.g. "French (fr)".
func Annotate(name string) string {
	return name + " (" + Code(name) + ")"
}
