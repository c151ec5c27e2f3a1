package basestore

import (
	"context"
	"time"

	"github.com/medifarma/backend/internal/domain"
)

// Adapter exposes the persisted dataset as a source adapter: an in-memory
// scope match over the full record set. It performs no network I/O and only
// fails when the dataset itself is unreadable.
type Adapter struct {
	repo domain.BaseRepository
}

// NewAdapter wraps a BASE repository.
func NewAdapter(repo domain.BaseRepository) *Adapter {
	return &Adapter{repo: repo}
}

func (a *Adapter) Name() string          { return domain.BaseSourceName }
func (a *Adapter) Origin() domain.Origin { return domain.OriginBase }

// Fetch returns every BASE record matching the query's term and scope.
func (a *Adapter) Fetch(ctx context.Context, q domain.SearchQuery) ([]domain.CanonicalRecord, time.Time, error) {
	all, err := a.repo.All(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	var out []domain.CanonicalRecord
	for _, r := range all {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out, a.repo.LastModified(), nil
}
