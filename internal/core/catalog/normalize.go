package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// normalize lowercases, strips diacritics and punctuation, and collapses
// whitespace so "Valise a nanard" and "Valise à Nanard" resolve alike.
func normalize(s string) string {
	if s == "" {
		return ""
	}
	s = stripDiacritics(s)
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)
	return collapseWhitespace(s)
}

func stripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if !unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// DisplayLabel returns s in NFC form so composed and decomposed accents
// occupy the same number of columns in fixed-width reports.
func DisplayLabel(s string) string {
	return norm.NFC.String(s)
}
