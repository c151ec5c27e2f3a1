package usecase

import (
	"sort"
	"strings"

	"github.com/medifarma/backend/internal/domain"
)

// ViewService sorts, paginates, and computes price statistics over an
// already-cached ResultSet. It never re-fetches: source filtering and
// re-sorting operate purely on the cached records.
type ViewService struct{}

// NewViewService builds the view engine.
func NewViewService() *ViewService {
	return &ViewService{}
}

// normalizeRequest repairs a view request instead of failing it: unknown
// sort columns fall back to the default price sort and page bounds are
// clamped.
func normalizeRequest(req domain.ViewRequest) domain.ViewRequest {
	if !domain.ValidSortColumn(req.SortColumn) {
		req.SortColumn = domain.SortByPrice
	}
	if req.PageSize == 0 {
		req.PageSize = domain.DefaultPageSize
	}
	if req.PageSize < domain.MinPageSize {
		req.PageSize = domain.MinPageSize
	}
	if req.PageSize > domain.MaxPageSize {
		req.PageSize = domain.MaxPageSize
	}
	if req.Page < 1 {
		req.Page = 1
	}
	return req
}

// filterBySources narrows records to the selected sources. An empty
// selection keeps everything.
func filterBySources(records []domain.CanonicalRecord, sources []string) []domain.CanonicalRecord {
	if len(sources) == 0 {
		return append([]domain.CanonicalRecord(nil), records...)
	}
	selected := make(map[string]bool, len(sources))
	for _, s := range sources {
		selected[s] = true
	}
	var out []domain.CanonicalRecord
	for _, r := range records {
		if selected[r.Source] {
			out = append(out, r)
		}
	}
	return out
}

// sortRecords stable-sorts in place. Price sorts numerically with
// unparseable prices ordered after every parseable one in either direction;
// text columns compare case- and accent-insensitively. Ties keep merge
// order.
func sortRecords(records []domain.CanonicalRecord, col domain.SortColumn, asc bool) {
	if col == domain.SortByPrice {
		sort.SliceStable(records, func(i, j int) bool {
			av, aok := records[i].PriceValue()
			bv, bok := records[j].PriceValue()
			if aok != bok {
				return aok // parseable prices first
			}
			if !aok {
				return false
			}
			if asc {
				return av < bv
			}
			return av > bv
		})
		return
	}

	key := textKey(col)
	sort.SliceStable(records, func(i, j int) bool {
		a, b := domain.NormalizeText(key(records[i])), domain.NormalizeText(key(records[j]))
		if asc {
			return a < b
		}
		return b < a
	})
}

func textKey(col domain.SortColumn) func(domain.CanonicalRecord) string {
	switch col {
	case domain.SortByCode:
		return func(r domain.CanonicalRecord) string { return r.Code }
	case domain.SortByIngredient:
		return func(r domain.CanonicalRecord) string { return r.Ingredient }
	case domain.SortByLab:
		return func(r domain.CanonicalRecord) string { return r.Lab }
	case domain.SortByPresentation:
		return func(r domain.CanonicalRecord) string { return r.Presentation }
	case domain.SortBySource:
		return func(r domain.CanonicalRecord) string { return r.Source }
	case domain.SortByGroup:
		return func(r domain.CanonicalRecord) string { return r.Group }
	default:
		return func(r domain.CanonicalRecord) string { return r.Product }
	}
}

// minMax finds the cheapest and most expensive records over the whole
// filtered set, in merge order so ties resolve to the first occurrence. The
// slice must not have been re-sorted yet.
func minMax(records []domain.CanonicalRecord) (min, max *domain.CanonicalRecord) {
	var minV, maxV float64
	for i := range records {
		v, ok := records[i].PriceValue()
		if !ok {
			continue
		}
		if min == nil || v < minV {
			rec := records[i]
			min, minV = &rec, v
		}
		if max == nil || v > maxV {
			rec := records[i]
			max, maxV = &rec, v
		}
	}
	return min, max
}

// View produces one page over the ResultSet: filter, statistics over the
// full filtered set, stable sort, then pagination with clamping.
func (s *ViewService) View(rs domain.ResultSet, req domain.ViewRequest) domain.PageResult {
	req = normalizeRequest(req)

	filtered := filterBySources(rs.Records, req.Sources)
	minRec, maxRec := minMax(filtered)
	sortRecords(filtered, req.SortColumn, req.SortAsc)

	total := len(filtered)
	totalPages := 0
	if total > 0 {
		totalPages = (total + req.PageSize - 1) / req.PageSize
	}

	page := req.Page
	if totalPages == 0 {
		page = 1
	} else if page > totalPages {
		page = totalPages
	}

	var pageRecords []domain.CanonicalRecord
	if total > 0 {
		start := (page - 1) * req.PageSize
		end := start + req.PageSize
		if end > total {
			end = total
		}
		pageRecords = filtered[start:end]
	}

	return domain.PageResult{
		Records:    pageRecords,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   req.PageSize,
		SortColumn: req.SortColumn,
		SortAsc:    req.SortAsc,
		MinRecord:  minRec,
		MaxRecord:  maxRec,
	}
}

// Export returns the full filtered and sorted record sequence for the
// downstream exporter; file formatting is the collaborator's concern.
func (s *ViewService) Export(rs domain.ResultSet, req domain.ViewRequest) []domain.CanonicalRecord {
	req = normalizeRequest(req)
	filtered := filterBySources(rs.Records, req.Sources)
	sortRecords(filtered, req.SortColumn, req.SortAsc)
	return filtered
}

// SourceNames lists the distinct sources present in a ResultSet,
// alphabetically, for the collaborator's filter chips.
func (s *ViewService) SourceNames(rs domain.ResultSet) []string {
	names := append([]string(nil), rs.SourcesObserved...)
	sort.Slice(names, func(i, j int) bool {
		return strings.ToUpper(names[i]) < strings.ToUpper(names[j])
	})
	return names
}
