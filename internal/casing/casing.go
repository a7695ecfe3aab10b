// Package casing converts identifiers between the naming conventions used by
// template placeholders.
package casing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// wordStartRe matches a character followed by a capitalized word, e.g. "LParser" in "XMLParser".
	wordStartRe = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	// lowerUpperRe matches a lowercase letter or digit directly followed by an uppercase letter.
	lowerUpperRe = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// Pascal splits s on '-' and '_' and concatenates the segments with their first
// letter upper-cased. The rest of each segment is kept as typed, so
// Pascal("my-button") and Pascal("MyButton") both return "MyButton".
func Pascal(s string) string {
	var b strings.Builder
	for _, segment := range strings.FieldsFunc(s, isSeparator) {
		r, size := utf8.DecodeRuneInString(segment)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(segment[size:])
	}
	return b.String()
}

// Kebab inserts '-' at word boundaries and lower-cases the result:
// "MyComponent" -> "my-component", "XMLParser" -> "xml-parser".
// Runs made only of capitals are kept together ("API" -> "api", "APIKey" -> "api-key").
// Existing '-' and '_' are left in place.
func Kebab(s string) string {
	s = wordStartRe.ReplaceAllString(s, "${1}-${2}")
	s = lowerUpperRe.ReplaceAllString(s, "${1}-${2}")
	return strings.ToLower(s)
}

// Snake lower-cases s and replaces '-' with '_'.
func Snake(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "-", "_")
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_'
}
