package ingest

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/sources"
)

// Runner fetches and ingests multiple sources concurrently. Sources cover
// disjoint cities in practice, and the unique index backstops the rare case
// where two sources race on the same (city, day, title).
type Runner struct {
	coordinator *Coordinator
	logger      *zap.Logger
}

// NewRunner creates a runner over the given coordinator.
func NewRunner(coordinator *Coordinator, logger *zap.Logger) *Runner {
	return &Runner{
		coordinator: coordinator,
		logger:      logger,
	}
}

// RunAll fetches every source and ingests each batch, one goroutine per
// source. A source that fails to fetch never takes the run down with it: the
// failure is logged and the source gets an empty report, exactly as if it had
// yielded zero records. Reports are keyed by source name.
func (r *Runner) RunAll(ctx context.Context, srcs []sources.Source) map[string]*models.BatchReport {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		reports = make(map[string]*models.BatchReport, len(srcs))
	)

	for _, src := range srcs {
		wg.Add(1)
		go func(src sources.Source) {
			defer wg.Done()
			records, err := src.Fetch(ctx)
			if err != nil {
				r.logger.Error("Failed to fetch source",
					zap.String("source", src.Name()),
					zap.Error(err),
				)
				records = nil
			}
			report := r.coordinator.IngestBatch(ctx, src.Name(), records)
			mu.Lock()
			reports[src.Name()] = report
			mu.Unlock()
		}(src)
	}

	wg.Wait()
	return reports
}
