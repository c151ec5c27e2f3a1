package usecase

import (
	"time"

	"github.com/medifarma/backend/internal/domain"
)

// mergeResults concatenates adapter contributions in adapter order, tags
// origin, deduplicates, and assembles the ResultSet metadata.
//
// Dedup collapses repeat listings from the same source only: the identity
// key is (normalized product, normalized ingredient, source), first
// occurrence kept. A BASE row and a WEB row for the same real-world product
// stay distinct so the user can compare them.
func mergeResults(results []fetchResult) domain.ResultSet {
	rs := domain.ResultSet{CreatedAt: time.Now()}

	seen := make(map[string]bool)
	observed := make(map[string]bool)

	for _, res := range results {
		if res.err != nil {
			if rs.SourceErrors == nil {
				rs.SourceErrors = make(map[string]string)
			}
			rs.SourceErrors[res.source] = res.err.Error()
			continue
		}

		switch res.origin {
		case domain.OriginBase:
			if res.lastModified.After(rs.BaseLastModified) {
				rs.BaseLastModified = res.lastModified
			}
		case domain.OriginWeb:
			if res.lastModified.After(rs.ExtraLastModified) {
				rs.ExtraLastModified = res.lastModified
			}
		}

		for _, rec := range res.records {
			rec.Origin = res.origin
			if rec.Source == "" {
				rec.Source = res.source
			}

			key := string(rec.Origin) + "|" + rec.Source + "|" +
				domain.NormalizeText(rec.Product) + "|" +
				domain.NormalizeText(rec.Ingredient)
			if seen[key] {
				continue
			}
			seen[key] = true

			if !observed[rec.Source] {
				observed[rec.Source] = true
				rs.SourcesObserved = append(rs.SourcesObserved, rec.Source)
			}
			rs.Records = append(rs.Records, rec)
		}
	}
	return rs
}
