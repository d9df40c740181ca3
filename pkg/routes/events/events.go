// Package events exposes the event search and ingestion API.
package events

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/internal/repositories/event"
	"github.com/Ramsey-B/clover/internal/repositories/ingestionrun"
	"github.com/Ramsey-B/clover/pkg/ingest"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalize"
)

// Handler serves event queries and bulk ingestion.
type Handler struct {
	events      *event.Repository
	runs        *ingestionrun.Repository
	coordinator *ingest.Coordinator
	geo         *normalize.GeoResolver
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewHandler creates the events API handler.
func NewHandler(events *event.Repository, runs *ingestionrun.Repository, coordinator *ingest.Coordinator, geo *normalize.GeoResolver, logger *zap.Logger) *Handler {
	return &Handler{
		events:      events,
		runs:        runs,
		coordinator: coordinator,
		geo:         geo,
		validate:    validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers the event API routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/events", h.Search)
	g.GET("/events/:id", h.Get)
	g.POST("/ingest/:source", h.Ingest)
	g.GET("/ingest/runs", h.ListRuns)
}

// Search finds events by city or area, category and date range. An area name
// is promoted to its parent city so neighborhood searches surface everything
// stored under the city.
func (h *Handler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	query := models.SearchQuery{
		CityOrArea: c.QueryParam("city"),
		Category:   models.Category(c.QueryParam("category")),
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return httperror.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		query.Limit = n
	}
	for param, dest := range map[string]**time.Time{"date_from": &query.DateFrom, "date_to": &query.DateTo} {
		v := c.QueryParam(param)
		if v == "" {
			continue
		}
		parsed, ok := normalize.ParseDate(v, normalize.DateOptions{})
		if !ok {
			return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid %s %q", param, v)
		}
		*dest = &parsed
	}
	if err := h.validate.Struct(&query); err != nil {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid query: %v", err)
	}

	city := h.geo.ParentCity(query.CityOrArea)
	results, err := h.events.Search(ctx, city, query.Category, query.DateFrom, query.DateTo, query.Limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"city":   city,
		"count":  len(results),
		"events": results,
	})
}

// Get returns a single event by ID.
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	found, err := h.events.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if found == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "event not found")
	}
	return c.JSON(http.StatusOK, found)
}

// Ingest runs a raw record batch through the pipeline and returns the report.
// The same batch can be posted again safely; repeats surface as duplicates.
func (h *Handler) Ingest(c echo.Context) error {
	ctx := c.Request().Context()

	source := c.Param("source")
	if source == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "source is required")
	}

	var records []models.RawRecord
	if err := c.Bind(&records); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "body must be a JSON array of records")
	}

	report := h.coordinator.IngestBatch(ctx, source, records)
	return c.JSON(http.StatusOK, report)
}

// ListRuns returns recent ingestion runs for a source.
func (h *Handler) ListRuns(c echo.Context) error {
	ctx := c.Request().Context()

	source := c.QueryParam("source")
	if source == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "source is required")
	}

	runs, err := h.runs.ListBySource(ctx, source, 50)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, runs)
}
