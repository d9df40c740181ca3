// Package ingestionrun persists per-batch ingestion outcomes.
package ingestionrun

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/internal/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

var columns = []string{
	"id", "source", "started_at", "finished_at",
	"total", "inserted", "duplicate_exact", "duplicate_fuzzy",
	"rejected", "error_count", "created_at",
}

// Repository stores ingestion run history.
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// NewRepository creates a new ingestion run repository.
func NewRepository(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Record persists a finished batch report and returns the stored run.
func (r *Repository) Record(ctx context.Context, report *models.BatchReport) (*models.IngestionRun, error) {
	ctx, span := tracing.StartSpan(ctx, "ingestionrun.Repository.Record")
	defer span.End()

	run := &models.IngestionRun{
		ID:             uuid.NewString(),
		Source:         report.Source,
		StartedAt:      report.StartedAt,
		FinishedAt:     report.FinishedAt,
		Total:          report.Total,
		Inserted:       report.Inserted,
		DuplicateExact: report.DuplicateExact,
		DuplicateFuzzy: report.DuplicateFuzzy,
		Rejected:       report.Rejected,
		ErrorCount:     len(report.Errors),
		CreatedAt:      time.Now().UTC(),
	}

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("ingestion_runs")
	ib.Cols(columns...)
	ib.Values(
		run.ID, run.Source, run.StartedAt, run.FinishedAt,
		run.Total, run.Inserted, run.DuplicateExact, run.DuplicateFuzzy,
		run.Rejected, run.ErrorCount, run.CreatedAt,
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to record ingestion run",
			zap.String("source", run.Source),
			zap.Error(err),
		)
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to record ingestion run")
	}
	return run, nil
}

// ListBySource returns the most recent runs for a source, newest first.
func (r *Repository) ListBySource(ctx context.Context, source string, limit int) ([]models.IngestionRun, error) {
	ctx, span := tracing.StartSpan(ctx, "ingestionrun.Repository.ListBySource")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("ingestion_runs")
	sb.Where(sb.Equal("source", source))
	sb.OrderBy("started_at").Desc()
	sb.Limit(limit)

	query, args := sb.Build()
	var runs []models.IngestionRun
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		r.logger.Error("Failed to list ingestion runs",
			zap.String("source", source),
			zap.Error(err),
		)
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list ingestion runs")
	}
	return runs, nil
}
