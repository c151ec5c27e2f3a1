package domain

import "time"

// ResultSet is the merged output of one aggregation run, stored in the result
// cache and consumed by the view engine.
type ResultSet struct {
	Records []CanonicalRecord `json:"records"`

	// SourcesObserved lists the distinct source names that contributed at
	// least one record, in first-contribution order.
	SourcesObserved []string `json:"sourcesObserved"`

	// BaseLastModified is the persisted dataset's own modification stamp;
	// zero when the query did not touch BASE.
	BaseLastModified time.Time `json:"baseLastModified"`

	// ExtraLastModified is the completion time of the newest contributing
	// scrape; zero when the query did not touch WEB sources.
	ExtraLastModified time.Time `json:"extraLastModified"`

	// SourceErrors records adapters that failed, keyed by source name.
	// A failed adapter contributes zero records but never fails the query
	// unless every resolved adapter failed.
	SourceErrors map[string]string `json:"sourceErrors,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Partial reports whether at least one resolved adapter failed.
func (rs ResultSet) Partial() bool {
	return len(rs.SourceErrors) > 0
}
