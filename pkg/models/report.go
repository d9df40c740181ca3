package models

import "time"

// RejectionReason classifies why the builder refused a raw record. Rejections
// are counted per batch, never surfaced as errors.
type RejectionReason string

const (
	RejectionMissingTitle         RejectionReason = "missing_title"
	RejectionMissingDate          RejectionReason = "missing_date"
	RejectionInvalidPriceCurrency RejectionReason = "invalid_price_currency"
	RejectionOther                RejectionReason = "other"
)

// Rejection carries the reason plus enough context to log the record.
type Rejection struct {
	Reason RejectionReason `json:"reason"`
	Detail string          `json:"detail,omitempty"`
}

// MatchKind identifies how a duplicate was detected.
type MatchKind string

const (
	MatchNone  MatchKind = "not_duplicate"
	MatchExact MatchKind = "exact"
	MatchFuzzy MatchKind = "fuzzy"
)

// DuplicateDecision is the outcome of checking a candidate against the
// (city, date) window. It is normal control flow, not an error.
type DuplicateDecision struct {
	Kind       MatchKind `json:"kind"`
	MatchedID  string    `json:"matched_id,omitempty"`
	Similarity float64   `json:"similarity,omitempty"`
}

// IsDuplicate reports whether the decision matched an existing event.
func (d DuplicateDecision) IsDuplicate() bool {
	return d.Kind != MatchNone
}

// RecordError describes a single record that failed during ingestion.
type RecordError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// BatchReport is the sole outcome signal of a batch ingestion. Counts cover
// whatever was processed; a cancelled batch reports partial progress.
type BatchReport struct {
	Source         string        `json:"source"`
	StartedAt      time.Time     `json:"started_at"`
	FinishedAt     time.Time     `json:"finished_at"`
	Total          int           `json:"total"`
	Inserted       int           `json:"inserted"`
	DuplicateExact int           `json:"duplicate_exact"`
	DuplicateFuzzy int           `json:"duplicate_fuzzy"`
	Rejected       int           `json:"rejected"`
	Errors         []RecordError `json:"errors,omitempty"`
	Cancelled      bool          `json:"cancelled,omitempty"`
}

// IngestionRun is the persisted form of a BatchReport, kept for per-source
// statistics.
type IngestionRun struct {
	ID             string    `json:"id" db:"id"`
	Source         string    `json:"source" db:"source"`
	StartedAt      time.Time `json:"started_at" db:"started_at"`
	FinishedAt     time.Time `json:"finished_at" db:"finished_at"`
	Total          int       `json:"total" db:"total"`
	Inserted       int       `json:"inserted" db:"inserted"`
	DuplicateExact int       `json:"duplicate_exact" db:"duplicate_exact"`
	DuplicateFuzzy int       `json:"duplicate_fuzzy" db:"duplicate_fuzzy"`
	Rejected       int       `json:"rejected" db:"rejected"`
	ErrorCount     int       `json:"error_count" db:"error_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
