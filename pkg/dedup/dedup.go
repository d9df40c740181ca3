// Package dedup decides whether a candidate event duplicates one already
// stored in the same (city, calendar day) window.
package dedup

import (
	"strings"
	"unicode"

	"github.com/Ramsey-B/clover/pkg/models"
)

// DefaultThreshold is the word-overlap similarity at or above which two
// titles are considered the same event.
const DefaultThreshold = 0.8

// Detector runs duplicate detection over a candidate window. Windows are
// expected to be small (one city, one day) so comparisons are linear.
type Detector struct {
	threshold float64
}

// New creates a Detector with the default fuzzy threshold.
func New() *Detector {
	return &Detector{threshold: DefaultThreshold}
}

// NewWithThreshold creates a Detector with a custom fuzzy threshold.
func NewWithThreshold(threshold float64) *Detector {
	return &Detector{threshold: threshold}
}

// Detect checks the candidate against the window, in window order. Matching
// precedence: same-source external_id equality, then case-normalized title
// equality, then fuzzy word overlap. The first match wins; callers pass the
// window in a deterministic order (the repository sorts by created_at, id).
func (d *Detector) Detect(candidate *models.CanonicalEvent, window []models.CanonicalEvent) models.DuplicateDecision {
	// external_id is cheaper and more reliable than titles when both sides
	// have one from the same source.
	if candidate.ExternalID != nil {
		for i := range window {
			existing := &window[i]
			if existing.Source == candidate.Source && existing.ExternalID != nil &&
				*existing.ExternalID == *candidate.ExternalID {
				return models.DuplicateDecision{Kind: models.MatchExact, MatchedID: existing.ID, Similarity: 1.0}
			}
		}
	}

	candidateTitle := normalizeTitle(candidate.Title)
	for i := range window {
		if normalizeTitle(window[i].Title) == candidateTitle {
			return models.DuplicateDecision{Kind: models.MatchExact, MatchedID: window[i].ID, Similarity: 1.0}
		}
	}

	candidateWords := titleWords(candidate.Title)
	for i := range window {
		sim := overlap(candidateWords, titleWords(window[i].Title))
		if sim >= d.threshold {
			return models.DuplicateDecision{Kind: models.MatchFuzzy, MatchedID: window[i].ID, Similarity: sim}
		}
	}

	return models.DuplicateDecision{Kind: models.MatchNone}
}

// TitleSimilarity exposes the candidate-relative overlap score for two titles.
func TitleSimilarity(candidate, existing string) float64 {
	return overlap(titleWords(candidate), titleWords(existing))
}

// overlap computes |common words| / |candidate words|. The denominator is the
// candidate side on purpose: when the stored title is a superset phrase
// ("Festival de Jazz - Edición Primavera" vs "Festival de Jazz") a symmetric
// Jaccard score would dilute the match and produce false negatives.
func overlap(candidate, existing map[string]struct{}) float64 {
	if len(candidate) == 0 {
		return 0
	}
	common := 0
	for w := range candidate {
		if _, ok := existing[w]; ok {
			common++
		}
	}
	return float64(common) / float64(len(candidate))
}

// titleWords returns the set of lowercase words in a title, punctuation
// stripped.
func titleWords(title string) map[string]struct{} {
	words := make(map[string]struct{})
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			words[b.String()] = struct{}{}
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

// normalizeTitle lowercases and collapses whitespace for exact comparison.
func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
