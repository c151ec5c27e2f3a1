package domain

import (
	"sort"
	"strings"
)

// Scope selects which text fields a search term is matched against.
type Scope string

const (
	ScopeProduct    Scope = "PRODUCT"
	ScopeIngredient Scope = "INGREDIENT"
	ScopeBoth       Scope = "BOTH"
)

// ParseScope maps a request parameter to a Scope, defaulting to product.
func ParseScope(s string) Scope {
	switch Scope(strings.ToUpper(strings.TrimSpace(s))) {
	case ScopeIngredient:
		return ScopeIngredient
	case ScopeBoth:
		return ScopeBoth
	default:
		return ScopeProduct
	}
}

// Mode selects which source classes a query draws from.
type Mode string

const (
	ModeBaseOnly Mode = "BASE_ONLY"
	ModeWebOnly  Mode = "WEB_ONLY"
	ModeBoth     Mode = "BOTH"
)

// ParseMode maps a request parameter to a Mode, defaulting to BASE only.
func ParseMode(s string) Mode {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeWebOnly:
		return ModeWebOnly
	case ModeBoth:
		return ModeBoth
	default:
		return ModeBaseOnly
	}
}

// SearchQuery is the immutable identity of one search. Two queries are
// cache-equivalent iff all four fields are equal after Normalize.
type SearchQuery struct {
	Term    string
	Scope   Scope
	Mode    Mode
	Sources []string // selected pharmacies; empty means all known
}

// Normalize returns the canonical form of the query: folded term, sorted and
// deduplicated source selection.
func (q SearchQuery) Normalize() SearchQuery {
	out := SearchQuery{
		Term:  NormalizeText(q.Term),
		Scope: q.Scope,
		Mode:  q.Mode,
	}
	if len(q.Sources) > 0 {
		seen := make(map[string]bool, len(q.Sources))
		for _, s := range q.Sources {
			s = strings.TrimSpace(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out.Sources = append(out.Sources, s)
		}
		sort.Strings(out.Sources)
	}
	return out
}

// Key builds the cache key for the normalized query.
func (q SearchQuery) Key() string {
	n := q.Normalize()
	var b strings.Builder
	b.WriteString(n.Term)
	b.WriteByte('|')
	b.WriteString(string(n.Scope))
	b.WriteByte('|')
	b.WriteString(string(n.Mode))
	b.WriteByte('|')
	b.WriteString(strings.Join(n.Sources, ","))
	return b.String()
}

// IncludesBase reports whether the query draws on the persisted dataset.
func (q SearchQuery) IncludesBase() bool {
	return q.Mode == ModeBaseOnly || q.Mode == ModeBoth
}

// IncludesWeb reports whether the query draws on scraped sources.
func (q SearchQuery) IncludesWeb() bool {
	return q.Mode == ModeWebOnly || q.Mode == ModeBoth
}

// Matches applies the query's scope to a record using normalized substring
// matching. The term must already be normalized (as produced by Normalize).
func (q SearchQuery) Matches(r CanonicalRecord) bool {
	term := NormalizeText(q.Term)
	if term == "" {
		return false
	}
	switch q.Scope {
	case ScopeIngredient:
		return strings.Contains(NormalizeText(r.Ingredient), term)
	case ScopeBoth:
		return strings.Contains(NormalizeText(r.Product), term) ||
			strings.Contains(NormalizeText(r.Ingredient), term)
	default:
		return strings.Contains(NormalizeText(r.Product), term)
	}
}
