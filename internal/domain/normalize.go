package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks so that accented and unaccented
// spellings compare equal ("PARACETAMÓL" == "PARACETAMOL").
var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeText upper-cases, trims, and strips diacritics from a field value.
// All identity comparisons (dedup keys, cache keys, substring matching, text
// sorting) go through this so the engine is accent- and case-insensitive.
func NormalizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	return strings.ToUpper(s)
}
