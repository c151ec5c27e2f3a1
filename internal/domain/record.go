package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Origin tags where a record came from: the persisted dataset or a live scrape.
type Origin string

const (
	OriginBase Origin = "BASE"
	OriginWeb  Origin = "WEB"
)

// BaseSourceName is the source name attached to records served from the
// persisted dataset.
const BaseSourceName = "BASE"

// CanonicalRecord is the one shape every source maps into. WEB adapters leave
// fields they cannot extract blank; they never fabricate values.
type CanonicalRecord struct {
	// ID is the stable identity of a BASE record (UUID assigned by the
	// store). Empty for WEB records, which are ephemeral.
	ID string `json:"id,omitempty"`

	Code         string `json:"code"`         // internal product code
	Product      string `json:"product"`      // commercial brand name
	Ingredient   string `json:"ingredient"`   // active ingredient
	RegistryID   string `json:"registryId"`   // DIGEMID registry number
	Lab          string `json:"lab"`          // manufacturer / laboratory
	LabAbbrev    string `json:"labAbbrev"`    // abbreviated lab name
	PriceLab     string `json:"priceLab"`     // lab as listed on the price sheet
	Presentation string `json:"presentation"` // packaging / presentation
	Price        string `json:"price"`        // display price, e.g. "S/ 12.50"
	Source       string `json:"source"`       // pharmacy name or "BASE"
	Link         string `json:"link"`         // product URL, may be empty
	Group        string `json:"group"`        // product group / category
	Origin       Origin `json:"origin"`
}

// Editable reports whether the record may be mutated through the admin CRUD
// boundary. Only persisted BASE records are editable; WEB records are
// rebuilt on every scrape.
func (r CanonicalRecord) Editable() bool {
	return r.Origin == OriginBase
}

var priceNumberRegex = regexp.MustCompile(`(\d+(?:\.\d{1,2})?)`)

// PriceValue parses the numeric amount out of the display price. The second
// return is false when no number can be extracted.
func (r CanonicalRecord) PriceValue() (float64, bool) {
	s := strings.ReplaceAll(r.Price, ",", ".")
	m := priceNumberRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
