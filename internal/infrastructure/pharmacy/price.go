package pharmacy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Price patterns seen across the pharmacy sites, most specific first.
// Peruvian sites label prices "S/ 12.50", "S/. 12,50" or leave a bare number.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`S/\.?\s*(\d+(?:[.,]\d{1,2})?)`),
	regexp.MustCompile(`PEN\s*(\d+(?:[.,]\d{1,2})?)`),
	regexp.MustCompile(`(\d+[.,]\d{2})`),
}

// Prices outside this range are scraping noise (SKU fragments, phone
// numbers), not medicine prices.
const (
	minSanePrice = 0.01
	maxSanePrice = 10000
)

// NormalizePrice extracts a price from scraped text and renders it in the
// canonical "S/ N.NN" display form. Returns "" when no plausible price is
// present.
func NormalizePrice(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)

	for _, pat := range pricePatterns {
		m := pat.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		num := strings.ReplaceAll(m[1], ",", ".")
		v, err := strconv.ParseFloat(num, 64)
		if err != nil || v < minSanePrice || v > maxSanePrice {
			continue
		}
		return fmt.Sprintf("S/ %.2f", v)
	}
	return ""
}
