// Package names normalizes painting titles and derives file names from them.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSlug is used when a title has no usable characters.
const DefaultSlug = "untitled"

// Normalize returns s in Unicode NFC form with surrounding whitespace removed,
// so titles typed with combining marks and precomposed characters encode to
// the same bytes.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// StripDiacritics removes combining marks, turning "Café" into "Cafe".
// Returns the NFC form of the input if the transformation fails.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return norm.NFC.String(s)
	}
	return result
}

// Slug converts a title into a lowercase file-name stem made of letters,
// digits and single underscores.
func Slug(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(StripDiacritics(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	if b.Len() == 0 {
		return DefaultSlug
	}
	return b.String()
}
