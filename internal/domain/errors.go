package domain

import "errors"

var (
	// ErrEmptyQuery is returned when the search term is blank; no adapter
	// runs in that case.
	ErrEmptyQuery = errors.New("search term is empty")

	// ErrAllSourcesUnavailable is returned when every resolved adapter
	// failed. Partial failure never surfaces this; at least one adapter
	// must succeed for a query to produce a ResultSet.
	ErrAllSourcesUnavailable = errors.New("all resolved sources failed")

	// ErrAdapterTimeout marks an adapter that exceeded its per-adapter
	// deadline. Recorded in ResultSet metadata, never raised to the caller.
	ErrAdapterTimeout = errors.New("source adapter timed out")

	// ErrAdapterNetwork marks a transient network failure inside an adapter.
	ErrAdapterNetwork = errors.New("source adapter network error")

	// ErrAdapterParse marks a source page the adapter could not interpret;
	// the adapter degrades to zero records.
	ErrAdapterParse = errors.New("source adapter parse error")

	// ErrRecordNotFound is returned when a BASE record ID does not exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrBaseUnavailable is returned when the persisted dataset cannot be
	// read.
	ErrBaseUnavailable = errors.New("base dataset unavailable")
)
