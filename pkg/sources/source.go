// Package sources defines the listing source contract and the built-in
// adapters that fetch raw records for ingestion.
package sources

import (
	"context"

	"github.com/Ramsey-B/clover/pkg/models"
)

// Source is a provider of raw event records. Name identifies the source in
// reports, dedup decisions and metrics, so it must be stable across runs.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.RawRecord, error)
}
