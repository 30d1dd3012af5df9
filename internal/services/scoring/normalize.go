package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a guess for comparison: lowercase, diacritics stripped,
// anything that is not a letter or digit removed. "Häuser-Boot" and
// "hauserboot" compare equal.
func Normalize(s string) string {
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GuessMatches reports whether a guess matches the secret under Normalize.
func GuessMatches(guess, secret string) bool {
	n := Normalize(guess)
	return n != "" && n == Normalize(secret)
}
