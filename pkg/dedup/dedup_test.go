package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/clover/pkg/models"
)

func event(id, title string) models.CanonicalEvent {
	return models.CanonicalEvent{ID: id, Title: title, Source: "src-a"}
}

func TestDetectEmptyWindow(t *testing.T) {
	d := New()
	decision := d.Detect(&models.CanonicalEvent{Title: "Festival de Jazz"}, nil)
	assert.Equal(t, models.MatchNone, decision.Kind)
	assert.False(t, decision.IsDuplicate())
}

func TestDetectExternalID(t *testing.T) {
	d := New()
	extID := "ext-123"

	stored := event("e1", "Totally Different Title")
	stored.ExternalID = &extID

	candidate := &models.CanonicalEvent{Title: "Festival de Jazz", Source: "src-a", ExternalID: &extID}
	decision := d.Detect(candidate, []models.CanonicalEvent{stored})

	assert.Equal(t, models.MatchExact, decision.Kind)
	assert.Equal(t, "e1", decision.MatchedID)
	assert.Equal(t, 1.0, decision.Similarity)
}

func TestDetectExternalIDDifferentSourceIgnored(t *testing.T) {
	d := New()
	extID := "ext-123"

	stored := event("e1", "Totally Different Title")
	stored.ExternalID = &extID

	candidate := &models.CanonicalEvent{Title: "Festival de Jazz", Source: "src-b", ExternalID: &extID}
	decision := d.Detect(candidate, []models.CanonicalEvent{stored})

	assert.Equal(t, models.MatchNone, decision.Kind)
}

func TestDetectExactTitleCaseInsensitive(t *testing.T) {
	d := New()

	decision := d.Detect(
		&models.CanonicalEvent{Title: "FESTIVAL DE JAZZ"},
		[]models.CanonicalEvent{event("e1", "Festival de Jazz")},
	)

	assert.Equal(t, models.MatchExact, decision.Kind)
	assert.Equal(t, "e1", decision.MatchedID)
}

func TestDetectFuzzySupersetPhrase(t *testing.T) {
	d := New()

	// All candidate words appear in the stored superset phrase, so the
	// candidate-relative overlap is 1.0 even though the titles differ.
	decision := d.Detect(
		&models.CanonicalEvent{Title: "Festival de Jazz"},
		[]models.CanonicalEvent{event("e1", "Festival de Jazz - Edición Primavera")},
	)

	assert.Equal(t, models.MatchFuzzy, decision.Kind)
	assert.Equal(t, "e1", decision.MatchedID)
	assert.Equal(t, 1.0, decision.Similarity)
}

func TestDetectFuzzyThresholdBoundary(t *testing.T) {
	d := New()

	// 4 of 5 candidate words overlap: exactly 0.8, which is a match.
	decision := d.Detect(
		&models.CanonicalEvent{Title: "gran festival de jazz moderno"},
		[]models.CanonicalEvent{event("e1", "gran festival de jazz clasico")},
	)
	assert.Equal(t, models.MatchFuzzy, decision.Kind)
	assert.InDelta(t, 0.8, decision.Similarity, 1e-9)

	// 3 of 5: below threshold.
	decision = d.Detect(
		&models.CanonicalEvent{Title: "gran festival de rock pesado"},
		[]models.CanonicalEvent{event("e1", "gran festival de jazz clasico")},
	)
	assert.Equal(t, models.MatchNone, decision.Kind)
}

func TestDetectFirstMatchWins(t *testing.T) {
	d := New()

	window := []models.CanonicalEvent{
		event("first", "Festival de Jazz en el Parque"),
		event("second", "Festival de Jazz en la Plaza"),
	}
	decision := d.Detect(&models.CanonicalEvent{Title: "Festival de Jazz en"}, window)

	assert.Equal(t, models.MatchFuzzy, decision.Kind)
	assert.Equal(t, "first", decision.MatchedID)
}

func TestDetectExactBeatsFuzzy(t *testing.T) {
	d := New()

	window := []models.CanonicalEvent{
		event("fuzzy", "Festival de Jazz y Blues"),
		event("exact", "festival de jazz"),
	}
	decision := d.Detect(&models.CanonicalEvent{Title: "Festival de Jazz"}, window)

	assert.Equal(t, models.MatchExact, decision.Kind)
	assert.Equal(t, "exact", decision.MatchedID)
}

func TestTitleSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, TitleSimilarity("Festival de Jazz", "festival DE jazz!"))
	assert.InDelta(t, 0.5, TitleSimilarity("jazz rock", "jazz pop"), 1e-9)
	assert.Zero(t, TitleSimilarity("", "anything"))
}

func TestNewWithThreshold(t *testing.T) {
	d := NewWithThreshold(0.5)

	decision := d.Detect(
		&models.CanonicalEvent{Title: "festival de jazz y blues"},
		[]models.CanonicalEvent{event("e1", "gran festival de jazz")},
	)
	assert.Equal(t, models.MatchFuzzy, decision.Kind)
}
