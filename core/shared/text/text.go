package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Lower lowercases s with Greek casing rules (final sigma included) and trims it.
// A fresh caser is built per call since cases.Caser keeps state.
func Lower(s string) string {
	return strings.TrimSpace(cases.Lower(language.Greek).String(s))
}

// Fold lowercases s and removes combining marks, so "Δαπάνη" and "δαπανη" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return Lower(folded)
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
