package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medifarma/backend/internal/domain"
	"github.com/medifarma/backend/internal/usecase"
)

// PharmacyInfo is the registry entry exposed to the collaborator UI.
type PharmacyInfo struct {
	Name    string `json:"name"`
	BaseURL string `json:"baseUrl"`
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	search     *usecase.SearchService
	view       *usecase.ViewService
	base       domain.BaseRepository
	pharmacies []PharmacyInfo
}

// NewHandler creates a new HTTP handler.
func NewHandler(search *usecase.SearchService, view *usecase.ViewService, base domain.BaseRepository, pharmacies []PharmacyInfo) *Handler {
	return &Handler{
		search:     search,
		view:       view,
		base:       base,
		pharmacies: pharmacies,
	}
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "medifarma-backend",
	})
}

// ListPharmacies returns the curated pharmacy registry.
func (h *Handler) ListPharmacies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pharmacies": h.pharmacies})
}

// queryFromRequest builds the search identity from request parameters.
// `pharmacy` repeats to select which sites are scraped; empty means all.
func queryFromRequest(c *gin.Context) domain.SearchQuery {
	return domain.SearchQuery{
		Term:    c.Query("q"),
		Scope:   domain.ParseScope(c.Query("scope")),
		Mode:    domain.ParseMode(c.Query("mode")),
		Sources: c.QueryArray("pharmacy"),
	}
}

// viewFromRequest builds the page/sort/filter parameters. `filter` repeats
// to narrow an already-cached result set by source without re-scraping.
func viewFromRequest(c *gin.Context) domain.ViewRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	per, _ := strconv.Atoi(c.DefaultQuery("per", strconv.Itoa(domain.DefaultPageSize)))
	return domain.ViewRequest{
		Page:       page,
		PageSize:   per,
		SortColumn: domain.SortColumn(c.DefaultQuery("sort_col", string(domain.SortByPrice))),
		SortAsc:    c.DefaultQuery("sort_asc", "true") == "true",
		Sources:    c.QueryArray("filter"),
	}
}

func (h *Handler) searchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": "search term is required"})
	case errors.Is(err, domain.ErrAllSourcesUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "all sources failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Search runs (or serves from cache) one aggregation and returns the merged
// records plus source metadata. The caller decides whether to surface a
// partial-results warning from sourceErrors.
func (h *Handler) Search(c *gin.Context) {
	rs, err := h.search.Search(c.Request.Context(), queryFromRequest(c))
	if err != nil {
		h.searchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records":           rs.Records,
		"sourcesObserved":   rs.SourcesObserved,
		"baseLastModified":  rs.BaseLastModified,
		"extraLastModified": rs.ExtraLastModified,
		"sourceErrors":      rs.SourceErrors,
		"partial":           rs.Partial(),
	})
}

// View serves one sorted, paginated page over the cached result set of the
// given query, with min/max statistics over the whole filtered set.
func (h *Handler) View(c *gin.Context) {
	rs, err := h.search.Search(c.Request.Context(), queryFromRequest(c))
	if err != nil {
		h.searchError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view.View(rs, viewFromRequest(c)))
}

// Export returns the full filtered and sorted record sequence for the
// downstream export collaborator.
func (h *Handler) Export(c *gin.Context) {
	rs, err := h.search.Search(c.Request.Context(), queryFromRequest(c))
	if err != nil {
		h.searchError(c, err)
		return
	}
	records := h.view.Export(rs, viewFromRequest(c))
	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   len(records),
	})
}

func (h *Handler) crudError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, domain.ErrBaseUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "base dataset unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateRecord inserts one BASE record. Mutations invalidate the result
// cache through the store's change hook.
func (h *Handler) CreateRecord(c *gin.Context) {
	var rec domain.CanonicalRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record payload"})
		return
	}
	created, err := h.base.Add(c.Request.Context(), rec)
	if err != nil {
		h.crudError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateRecord overwrites the BASE record with the given ID.
func (h *Handler) UpdateRecord(c *gin.Context) {
	var rec domain.CanonicalRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record payload"})
		return
	}
	updated, err := h.base.Update(c.Request.Context(), c.Param("id"), rec)
	if err != nil {
		h.crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteRecord removes the BASE record with the given ID.
func (h *Handler) DeleteRecord(c *gin.Context) {
	if err := h.base.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ReplaceRecords swaps the whole BASE dataset, backing the collaborator's
// spreadsheet re-upload.
func (h *Handler) ReplaceRecords(c *gin.Context) {
	var recs []domain.CanonicalRecord
	if err := c.ShouldBindJSON(&recs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid records payload"})
		return
	}
	if err := h.base.ReplaceAll(c.Request.Context(), recs); err != nil {
		h.crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(recs)})
}
