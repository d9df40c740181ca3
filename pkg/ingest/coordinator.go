// Package ingest coordinates batch ingestion: build, dedup, store, report.
package ingest

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/pkg/builder"
	"github.com/Ramsey-B/clover/pkg/dedup"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// EventStore is the persistence surface the coordinator needs.
type EventStore interface {
	Insert(ctx context.Context, event *models.CanonicalEvent) error
	FindCandidates(ctx context.Context, city string, day time.Time) ([]models.CanonicalEvent, error)
}

// RunStore records finished batch reports. Optional.
type RunStore interface {
	Record(ctx context.Context, report *models.BatchReport) (*models.IngestionRun, error)
}

// Publisher notifies downstream consumers of accepted events. Optional.
type Publisher interface {
	PublishEventCreated(ctx context.Context, event *models.CanonicalEvent) error
}

// Projector mirrors accepted events into the graph. Optional.
type Projector interface {
	ProjectEvent(ctx context.Context, event *models.CanonicalEvent) error
}

// Coordinator runs raw record batches through the pipeline. Records are
// processed sequentially and committed one at a time, so a failure mid-batch
// never rolls back earlier inserts and re-running the same batch is safe.
type Coordinator struct {
	builder   *builder.Builder
	detector  *dedup.Detector
	events    EventStore
	runs      RunStore
	publisher Publisher
	projector Projector
	logger    *zap.Logger

	// maxErrors aborts the batch once exceeded; zero means no limit.
	maxErrors int
}

// Option configures optional coordinator collaborators.
type Option func(*Coordinator)

// WithRunStore persists each finished report as an ingestion run.
func WithRunStore(runs RunStore) Option {
	return func(c *Coordinator) { c.runs = runs }
}

// WithPublisher emits an event-created message for each insert.
func WithPublisher(p Publisher) Option {
	return func(c *Coordinator) { c.publisher = p }
}

// WithProjector mirrors each insert into the graph store.
func WithProjector(p Projector) Option {
	return func(c *Coordinator) { c.projector = p }
}

// WithMaxErrors aborts a batch after n record failures.
func WithMaxErrors(n int) Option {
	return func(c *Coordinator) { c.maxErrors = n }
}

// NewCoordinator creates a batch ingestion coordinator.
func NewCoordinator(b *builder.Builder, d *dedup.Detector, events EventStore, logger *zap.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		builder:  b,
		detector: d,
		events:   events,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type windowKey struct {
	city string
	day  string
}

// IngestBatch processes a batch of raw records from one source and returns
// the report. A malformed or failing record is counted and skipped; it never
// aborts the batch. Cancelling the context stops between records and the
// report carries the partial counts with Cancelled set.
func (c *Coordinator) IngestBatch(ctx context.Context, source string, records []models.RawRecord) *models.BatchReport {
	ctx, span := tracing.StartSpan(ctx, "ingest.Coordinator.IngestBatch")
	defer span.End()

	report := &models.BatchReport{
		Source:    source,
		StartedAt: time.Now().UTC(),
		Total:     len(records),
	}

	// Windows are cached per batch and extended with our own inserts, so a
	// record later in the batch sees events inserted earlier in the same
	// batch without re-querying.
	windows := make(map[windowKey][]models.CanonicalEvent)

	for i, raw := range records {
		if ctx.Err() != nil {
			report.Cancelled = true
			c.logger.Warn("Batch ingestion cancelled",
				zap.String("source", source),
				zap.Int("processed", i),
				zap.Int("total", len(records)),
			)
			break
		}
		if c.maxErrors > 0 && len(report.Errors) >= c.maxErrors {
			report.Cancelled = true
			c.logger.Error("Batch ingestion aborted, too many record failures",
				zap.String("source", source),
				zap.Int("failures", len(report.Errors)),
			)
			break
		}
		c.ingestRecord(ctx, source, i, raw, windows, report)
	}

	report.FinishedAt = time.Now().UTC()
	metrics.BatchesCompleted.WithLabelValues(source).Inc()
	metrics.BatchDuration.WithLabelValues(source).Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())

	c.logger.Info("Batch ingestion finished",
		zap.String("source", source),
		zap.Int("total", report.Total),
		zap.Int("inserted", report.Inserted),
		zap.Int("duplicate_exact", report.DuplicateExact),
		zap.Int("duplicate_fuzzy", report.DuplicateFuzzy),
		zap.Int("rejected", report.Rejected),
		zap.Int("errors", len(report.Errors)),
	)

	if c.runs != nil {
		if _, err := c.runs.Record(ctx, report); err != nil {
			// The report already exists in memory; losing the history row is
			// not worth failing the batch over.
			c.logger.Error("Failed to persist ingestion run", zap.String("source", source), zap.Error(err))
		}
	}
	return report
}

func (c *Coordinator) ingestRecord(ctx context.Context, source string, index int, raw models.RawRecord, windows map[windowKey][]models.CanonicalEvent, report *models.BatchReport) {
	event, rejection := c.builder.Build(raw, source)
	if rejection != nil {
		report.Rejected++
		metrics.RecordsProcessed.WithLabelValues(source, metrics.OutcomeRejected).Inc()
		c.logger.Debug("Record rejected",
			zap.String("source", source),
			zap.Int("index", index),
			zap.String("reason", string(rejection.Reason)),
			zap.String("detail", rejection.Detail),
		)
		return
	}

	key := windowKey{city: event.City, day: event.StartDate().Format("2006-01-02")}
	window, ok := windows[key]
	if !ok {
		var err error
		window, err = c.events.FindCandidates(ctx, event.City, event.StartDate())
		if err != nil {
			c.recordFailure(report, source, index, err)
			return
		}
		windows[key] = window
	}

	decision := c.detector.Detect(event, window)
	if decision.IsDuplicate() {
		c.countDuplicate(report, source, decision)
		c.logger.Debug("Duplicate record skipped",
			zap.String("source", source),
			zap.Int("index", index),
			zap.String("kind", string(decision.Kind)),
			zap.String("matched_id", decision.MatchedID),
			zap.Float64("similarity", decision.Similarity),
		)
		return
	}

	if err := c.events.Insert(ctx, event); err != nil {
		if errors.Is(err, models.ErrDuplicateEvent) {
			// The unique index caught what the detector missed, usually a
			// concurrent insert from another batch. Still a duplicate.
			c.countDuplicate(report, source, models.DuplicateDecision{Kind: models.MatchExact})
			return
		}
		c.recordFailure(report, source, index, err)
		return
	}

	windows[key] = append(windows[key], *event)
	report.Inserted++
	metrics.RecordsProcessed.WithLabelValues(source, metrics.OutcomeInserted).Inc()

	// Side effects are best effort; the event is already committed.
	if c.publisher != nil {
		if err := c.publisher.PublishEventCreated(ctx, event); err != nil {
			c.logger.Error("Failed to publish event", zap.String("event_id", event.ID), zap.Error(err))
		}
	}
	if c.projector != nil {
		if err := c.projector.ProjectEvent(ctx, event); err != nil {
			c.logger.Error("Failed to project event to graph", zap.String("event_id", event.ID), zap.Error(err))
		}
	}
}

func (c *Coordinator) countDuplicate(report *models.BatchReport, source string, decision models.DuplicateDecision) {
	if decision.Kind == models.MatchFuzzy {
		report.DuplicateFuzzy++
		metrics.RecordsProcessed.WithLabelValues(source, metrics.OutcomeDuplicateFuzzy).Inc()
		return
	}
	report.DuplicateExact++
	metrics.RecordsProcessed.WithLabelValues(source, metrics.OutcomeDuplicateExact).Inc()
}

func (c *Coordinator) recordFailure(report *models.BatchReport, source string, index int, err error) {
	report.Errors = append(report.Errors, models.RecordError{Index: index, Message: err.Error()})
	metrics.RecordsProcessed.WithLabelValues(source, metrics.OutcomeError).Inc()
	c.logger.Error("Record ingestion failed",
		zap.String("source", source),
		zap.Int("index", index),
		zap.Error(err),
	)
}
