package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes characters and drops combining marks, so
// "Café" and "Cafe" normalize to the same bytes.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases text, strips diacritics, replaces punctuation with
// spaces, and collapses whitespace runs to single spaces.
func Normalize(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		stripped = s
	}
	lowered := strings.ToLower(stripped)

	var b strings.Builder
	b.Grow(len(lowered))
	prevSpace := true
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
			prevSpace = false
		default:
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Slug restricts Normalize output to [a-z0-9-], with single dashes at gaps.
// Runes outside ASCII after diacritic stripping count as gaps.
func Slug(s string) string {
	normalized := Normalize(s)

	var b strings.Builder
	b.Grow(len(normalized))
	prevDash := true
	for _, r := range normalized {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
