package domain

import (
	"context"
	"time"
)

// SourceAdapter fetches records matching a query from one source: either the
// persisted BASE dataset or one scraped pharmacy site. Implementations must
// honor ctx deadlines and surface their own failures as the returned error;
// the orchestrator isolates each adapter so one failure never delays or
// fails the others.
type SourceAdapter interface {
	Name() string
	Origin() Origin
	Fetch(ctx context.Context, q SearchQuery) ([]CanonicalRecord, time.Time, error)
}

// BaseRepository is the persistence boundary for the admin-editable BASE
// dataset. The engine reads it through the BASE adapter; the admin CRUD
// layer mutates it. Every mutation must refresh the last-modified stamp and
// fire the change hook so cached results are invalidated.
type BaseRepository interface {
	All(ctx context.Context) ([]CanonicalRecord, error)
	Get(ctx context.Context, id string) (CanonicalRecord, error)
	Add(ctx context.Context, rec CanonicalRecord) (CanonicalRecord, error)
	Update(ctx context.Context, id string, rec CanonicalRecord) (CanonicalRecord, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, recs []CanonicalRecord) error
	LastModified() time.Time
	OnChange(fn func())
}

// ResultCache stores merged ResultSets keyed by normalized query identity.
// GetOrCompute must guarantee at most one concurrent computation per key;
// callers for an identical in-flight key wait for and share its result.
// A failed computation is never cached.
type ResultCache interface {
	GetOrCompute(ctx context.Context, q SearchQuery, compute func(context.Context) (ResultSet, error)) (ResultSet, error)
	InvalidateAll()
}
