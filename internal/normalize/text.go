package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.French)

// TitleCase applies word-by-word title casing, used for city, region and
// job_search columns.
func TitleCase(s string) string {
	return titleCaser.String(strings.TrimSpace(s))
}

// Capitalize upper-cases the first rune and lower-cases the rest, used
// for the remaining free-text columns.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// FixAcronyms repairs acronym artifacts produced by naive title-casing.
// Only "Ml Engineer" needs it today.
func FixAcronyms(s string) string {
	return strings.ReplaceAll(s, "Ml Engineer", "ML Engineer")
}

// StripNewlines flattens a description to a single line.
func StripNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "")
}
