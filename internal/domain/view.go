package domain

// SortColumn identifies a CanonicalRecord field the view engine can order by.
type SortColumn string

const (
	SortByCode         SortColumn = "code"
	SortByProduct      SortColumn = "product"
	SortByIngredient   SortColumn = "ingredient"
	SortByLab          SortColumn = "lab"
	SortByPresentation SortColumn = "presentation"
	SortByPrice        SortColumn = "price"
	SortBySource       SortColumn = "source"
	SortByGroup        SortColumn = "group"
)

// ValidSortColumn reports whether the column is sortable. Unknown columns
// fall back to the default price sort rather than failing the request.
func ValidSortColumn(c SortColumn) bool {
	switch c {
	case SortByCode, SortByProduct, SortByIngredient, SortByLab,
		SortByPresentation, SortByPrice, SortBySource, SortByGroup:
		return true
	}
	return false
}

// View request bounds, carried over from the original UI limits.
const (
	MinPageSize     = 5
	MaxPageSize     = 100
	DefaultPageSize = 25
)

// ViewRequest describes one page view over an already-cached ResultSet.
// Sources narrows the set to the given pharmacy names without re-scraping.
type ViewRequest struct {
	Page       int
	PageSize   int
	SortColumn SortColumn
	SortAsc    bool
	Sources    []string
}

// PageResult is one served page plus statistics over the entire filtered set.
type PageResult struct {
	Records    []CanonicalRecord `json:"records"`
	Total      int               `json:"total"`
	TotalPages int               `json:"totalPages"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	SortColumn SortColumn        `json:"sortColumn"`
	SortAsc    bool              `json:"sortAsc"`

	// MinRecord and MaxRecord are the cheapest and most expensive records
	// of the whole filtered set, not just the current page. Nil when the
	// set holds no parseable price.
	MinRecord *CanonicalRecord `json:"minRecord,omitempty"`
	MaxRecord *CanonicalRecord `json:"maxRecord,omitempty"`
}
