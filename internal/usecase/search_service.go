package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/medifarma/backend/internal/domain"
)

// SearchConfig holds tuning for the scrape fan-out.
type SearchConfig struct {
	// AdapterTimeout bounds each adapter call. A timed-out adapter is
	// recorded as failed; its siblings are unaffected.
	AdapterTimeout time.Duration
	// Concurrency caps how many adapters run at once.
	Concurrency int
}

// SearchService fans a query out to the resolved source adapters, merges and
// deduplicates their records, and serves repeated queries from the result
// cache. Flow: normalize -> cache get-or-compute -> fan out -> merge.
type SearchService struct {
	base           domain.SourceAdapter
	web            []domain.SourceAdapter
	cache          domain.ResultCache
	adapterTimeout time.Duration
	concurrency    int
}

// NewSearchService wires the BASE adapter, the WEB adapter registry (fixed
// order), and the result cache.
func NewSearchService(base domain.SourceAdapter, web []domain.SourceAdapter, cache domain.ResultCache, cfg SearchConfig) *SearchService {
	timeout := cfg.AdapterTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = len(web) + 1
	}
	return &SearchService{
		base:           base,
		web:            web,
		cache:          cache,
		adapterTimeout: timeout,
		concurrency:    concurrency,
	}
}

// WebSourceNames lists the registered pharmacy adapters in registry order.
func (s *SearchService) WebSourceNames() []string {
	names := make([]string, 0, len(s.web))
	for _, a := range s.web {
		names = append(names, a.Name())
	}
	return names
}

// Search resolves a query to a merged ResultSet, serving it from the cache
// when an identical normalized query is already stored or in flight.
func (s *SearchService) Search(ctx context.Context, q domain.SearchQuery) (domain.ResultSet, error) {
	if strings.TrimSpace(q.Term) == "" {
		return domain.ResultSet{}, domain.ErrEmptyQuery
	}
	q = q.Normalize()
	return s.cache.GetOrCompute(ctx, q, func(ctx context.Context) (domain.ResultSet, error) {
		return s.aggregate(ctx, q)
	})
}

// fetchResult is one adapter's settled outcome.
type fetchResult struct {
	source       string
	origin       domain.Origin
	records      []domain.CanonicalRecord
	lastModified time.Time
	err          error
}

// resolveAdapters picks the adapters a query draws from: BASE unless the
// mode is WEB-only, plus the selected pharmacy adapters (all of them when
// the selection is empty).
func (s *SearchService) resolveAdapters(q domain.SearchQuery) []domain.SourceAdapter {
	var out []domain.SourceAdapter
	if q.IncludesBase() {
		out = append(out, s.base)
	}
	if q.IncludesWeb() {
		selected := make(map[string]bool, len(q.Sources))
		for _, name := range q.Sources {
			selected[name] = true
		}
		for _, a := range s.web {
			if len(selected) == 0 || selected[a.Name()] {
				out = append(out, a)
			}
		}
	}
	return out
}

// aggregate runs the fan-out and merge for one query. Adapters run
// concurrently, each under its own deadline; a failed adapter contributes
// zero records and a metadata entry. Only the all-failed case errors.
func (s *SearchService) aggregate(ctx context.Context, q domain.SearchQuery) (domain.ResultSet, error) {
	adapters := s.resolveAdapters(q)
	if len(adapters) == 0 {
		return domain.ResultSet{}, domain.ErrAllSourcesUnavailable
	}

	// One slot per adapter keeps contribution order deterministic
	// regardless of completion order.
	results := make([]fetchResult, len(adapters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, a := range adapters {
		i, a := i, a
		g.Go(func() error {
			actx, cancel := context.WithTimeout(gctx, s.adapterTimeout)
			defer cancel()

			records, lastModified, err := a.Fetch(actx, q)
			results[i] = fetchResult{
				source:       a.Name(),
				origin:       a.Origin(),
				records:      records,
				lastModified: lastModified,
				err:          err,
			}
			if err != nil {
				log.Printf("[search] source %s failed: %v", a.Name(), err)
			}
			// Adapter failures are metadata, not group failures.
			return nil
		})
	}
	_ = g.Wait()

	rs := mergeResults(results)
	if len(rs.SourceErrors) == len(adapters) {
		return domain.ResultSet{}, domain.ErrAllSourcesUnavailable
	}

	log.Printf("[search] %q: %d records from %d sources (%d failed)",
		q.Term, len(rs.Records), len(adapters), len(rs.SourceErrors))
	return rs, nil
}
