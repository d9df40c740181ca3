// Package event persists canonical events.
package event

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/internal/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

var columns = []string{
	"id", "title", "description", "start_datetime", "end_datetime",
	"venue_name", "venue_address", "city", "neighborhood", "country",
	"latitude", "longitude", "category", "subcategory",
	"price", "currency", "is_free", "price_known",
	"image_url", "event_url", "source", "external_id",
	"created_at", "updated_at",
}

// Repository handles canonical event persistence.
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// NewRepository creates a new event repository.
func NewRepository(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Insert stores a new canonical event. A unique-constraint violation on the
// (city, start_date, title) dedup index returns models.ErrDuplicateEvent so
// the coordinator can count it as a duplicate detected late.
func (r *Repository) Insert(ctx context.Context, event *models.CanonicalEvent) error {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.Insert")
	defer span.End()

	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("events")
	ib.Cols(columns...)
	ib.Values(
		event.ID, event.Title, event.Description, event.StartDatetime, event.EndDatetime,
		event.VenueName, event.VenueAddress, event.City, event.Neighborhood, event.Country,
		event.Latitude, event.Longitude, event.Category, event.Subcategory,
		event.Price, event.Currency, event.IsFree, event.PriceKnown,
		event.ImageURL, event.EventURL, event.Source, event.ExternalID,
		event.CreatedAt, event.UpdatedAt,
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.ErrDuplicateEvent
		}
		r.logger.Error("Failed to insert event",
			zap.String("event_id", event.ID),
			zap.String("city", event.City),
			zap.String("source", event.Source),
			zap.Error(err),
		)
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to insert event: %v", err)
	}
	return nil
}

// FindCandidates returns the duplicate-detection window: all events in the
// given city on the given calendar day, in deterministic order so the fuzzy
// tie-break is stable across runs.
func (r *Repository) FindCandidates(ctx context.Context, city string, day time.Time) ([]models.CanonicalEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.FindCandidates")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("events")
	sb.Where(
		sb.Equal("city", city),
		sb.Equal("start_date", day.UTC().Format("2006-01-02")),
	)
	sb.OrderBy("created_at", "id")

	query, args := sb.Build()
	var events []models.CanonicalEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		r.logger.Error("Failed to find candidate events",
			zap.String("city", city),
			zap.Time("day", day),
			zap.Error(err),
		)
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to find candidate events")
	}
	return events, nil
}

// Get retrieves an event by ID. Returns nil when not found.
func (r *Repository) Get(ctx context.Context, id string) (*models.CanonicalEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("events")
	sb.Where(sb.Equal("id", id))
	sb.Limit(1)

	query, args := sb.Build()
	var event models.CanonicalEvent
	if err := r.db.GetContext(ctx, &event, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get event", zap.String("event_id", id), zap.Error(err))
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get event")
	}
	return &event, nil
}

// Search returns events for a city with optional category and date-range
// filters. Callers resolve area names to their parent city first, so a search
// for a neighborhood surfaces events stored under the promoted city.
func (r *Repository) Search(ctx context.Context, city string, category models.Category, from, to *time.Time, limit int) ([]models.CanonicalEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.Search")
	defer span.End()

	if limit <= 0 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("events")
	where := []string{sb.Equal("city", city)}
	if category != "" {
		where = append(where, sb.Equal("category", category))
	}
	if from != nil {
		where = append(where, sb.GreaterEqualThan("start_datetime", from.UTC()))
	}
	if to != nil {
		where = append(where, sb.LessEqualThan("start_datetime", to.UTC()))
	}
	sb.Where(where...)
	sb.OrderBy("start_datetime", "id")
	sb.Limit(limit)

	query, args := sb.Build()
	var events []models.CanonicalEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		r.logger.Error("Failed to search events",
			zap.String("city", city),
			zap.String("category", string(category)),
			zap.Error(err),
		)
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search events")
	}
	return events, nil
}

// UpdateImageURL back-fills the image URL of a stored event. Used by the
// asynchronous enrichment consumer; the only post-acceptance mutation the
// pipeline allows.
func (r *Repository) UpdateImageURL(ctx context.Context, id, imageURL string) error {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.UpdateImageURL")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("events")
	ub.Set(
		ub.Assign("image_url", imageURL),
		ub.Assign("updated_at", time.Now().UTC()),
	)
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to update event image", zap.String("event_id", id), zap.Error(err))
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update event image")
	}
	return nil
}
