package decor

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify converts a title to a URL-safe slug. With allowUnicode false,
// accented characters are transliterated to ASCII by stripping combining
// marks; anything left outside [a-z0-9] is dropped. With allowUnicode true,
// unicode letters and digits are kept and only punctuation is dropped.
// Whitespace and hyphen runs collapse to a single hyphen either way.
//
// Deterministic and pure: it never consults existing records, so uniqueness
// is the store's problem, not this function's.
func Slugify(s string, allowUnicode bool) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if !allowUnicode {
		s = deaccent(s)
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case allowUnicode && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			b.WriteByte(' ')
		}
		// Everything else is dropped.
	}
	return strings.Join(strings.Fields(b.String()), "-")
}

// deaccent strips combining marks after NFD decomposition, turning e.g.
// "trí" into "tri". đ does not decompose, so it is mapped by hand
// (Vietnamese titles are the common case here).
func deaccent(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Map(func(r rune) rune {
		if r == 'đ' {
			return 'd'
		}
		return r
	}, out)
}
