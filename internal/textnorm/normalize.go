package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases a string and strips diacritics so that values such as
// "Médecin" and "medecin" compare equal. The transform chain is built per
// call because transformers carry internal state.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Collapse trims a string and squeezes internal runs of whitespace down to
// a single space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tokens splits a string into folded word tokens. Anything that is not a
// letter or digit acts as a separator, so "VP, Engineering" yields
// ["vp", "engineering"].
func Tokens(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Digits returns only the decimal digits of a string, in order.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
