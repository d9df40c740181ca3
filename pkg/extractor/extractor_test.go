package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/refdata"
)

func TestFieldStringAliasPriority(t *testing.T) {
	e := New(refdata.Default())

	tests := []struct {
		name string
		raw  models.RawRecord
		want *string
	}{
		{
			name: "first alias wins",
			raw:  models.RawRecord{"nombre": "Feria de Mataderos", "title": "ignored"},
			want: ptr("Feria de Mataderos"),
		},
		{
			name: "empty alias skipped",
			raw:  models.RawRecord{"nombre": "  ", "title": "Concert"},
			want: ptr("Concert"),
		},
		{
			name: "null alias skipped",
			raw:  models.RawRecord{"titulo": nil, "name": "Show"},
			want: ptr("Show"),
		},
		{
			name: "whitespace trimmed",
			raw:  models.RawRecord{"title": "  Recital  "},
			want: ptr("Recital"),
		},
		{
			name: "no alias present",
			raw:  models.RawRecord{"unrelated": "x"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.FieldString(tt.raw, FieldTitle)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestFieldNestedLookup(t *testing.T) {
	tables := &refdata.Tables{
		Aliases: map[string][]string{
			FieldVenueName: {"venue.name", "lugar"},
		},
	}
	e := New(tables)

	raw := models.RawRecord{
		"venue": map[string]any{"name": "Teatro Colón"},
	}
	got := e.FieldString(raw, FieldVenueName)
	require.NotNil(t, got)
	assert.Equal(t, "Teatro Colón", *got)

	// Missing nested path falls through to the next alias.
	raw = models.RawRecord{"venue": "not a map", "lugar": "Niceto Club"}
	got = e.FieldString(raw, FieldVenueName)
	require.NotNil(t, got)
	assert.Equal(t, "Niceto Club", *got)
}

func TestFieldStringNumericValue(t *testing.T) {
	e := New(refdata.Default())

	raw := models.RawRecord{"precio": 1500.0}
	got := e.FieldString(raw, FieldPrice)
	require.NotNil(t, got)
	assert.Equal(t, "1500", *got)
}

func TestFieldFloat(t *testing.T) {
	e := New(refdata.Default())

	tests := []struct {
		name string
		raw  models.RawRecord
		want *float64
	}{
		{"float value", models.RawRecord{"lat": -34.58}, ptrF(-34.58)},
		{"int value", models.RawRecord{"lat": -34}, ptrF(-34)},
		{"string value", models.RawRecord{"latitude": "-34.58"}, ptrF(-34.58)},
		{"garbage string", models.RawRecord{"lat": "south"}, nil},
		{"absent", models.RawRecord{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.FieldFloat(tt.raw, FieldLatitude)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func ptr(s string) *string    { return &s }
func ptrF(f float64) *float64 { return &f }
