package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/sources"
)

type staticSource struct {
	name    string
	records []models.RawRecord
	err     error
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	return s.records, s.err
}

func TestRunnerRunAll(t *testing.T) {
	store := &fakeStore{}
	runner := NewRunner(newTestCoordinator(store), zap.NewNop())

	reports := runner.RunAll(context.Background(), []sources.Source{
		&staticSource{name: "eventos-ba", records: []models.RawRecord{
			record("Festival de Jazz", "15/03/2025", "Palermo"),
		}},
		&staticSource{name: "agenda-madrid", records: []models.RawRecord{
			record("Concierto flamenco", "15/03/2025", "Madrid"),
		}},
		&staticSource{name: "broken", err: errors.New("api down")},
	})

	require.Len(t, reports, 3)
	assert.Equal(t, 1, reports["eventos-ba"].Inserted)
	assert.Equal(t, 1, reports["agenda-madrid"].Inserted)
	// A failing source yields an empty report, not a missing one.
	require.Contains(t, reports, "broken")
	assert.Zero(t, reports["broken"].Total)
	assert.Len(t, store.events, 2)
}
