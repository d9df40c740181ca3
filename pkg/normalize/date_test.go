package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/refdata"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts DateOptions
		want time.Time
		ok   bool
	}{
		{
			name: "iso date",
			text: "2025-03-15",
			want: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "iso datetime",
			text: "2025-03-15T20:30:00Z",
			want: time.Date(2025, 3, 15, 20, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "iso datetime without zone",
			text: "2025-03-15 20:30",
			want: time.Date(2025, 3, 15, 20, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "numeric day first default",
			text: "15/03/2025",
			want: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "ambiguous numeric day first",
			text: "03/04/2025",
			want: time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "ambiguous numeric month first",
			text: "03/04/2025",
			opts: DateOptions{Order: refdata.MonthFirst},
			want: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "component above twelve overrides month first hint",
			text: "13/04/2025",
			opts: DateOptions{Order: refdata.MonthFirst},
			want: time.Date(2025, 4, 13, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "two digit year",
			text: "15/03/25",
			want: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "dot separated",
			text: "15.03.2025",
			want: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "spanish month name",
			text: "15 de marzo de 2024",
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "portuguese month name",
			text: "10 de março de 2024",
			want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "french month name",
			text: "3 octobre 2025",
			want: time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "textual without year uses default year",
			text: "15 de noviembre",
			opts: DateOptions{DefaultYear: 2025},
			want: time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "english month name",
			text: "March 15, 2025",
			want: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "iso range keeps start",
			text: "2025-11-07/2025-11-16",
			want: time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "numeric range keeps start",
			text: "15/03/2025 al 20/03/2025",
			want: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "textual range keeps start",
			text: "15 al 20 de noviembre",
			opts: DateOptions{DefaultYear: 2025},
			want: time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "unparseable text",
			text: "algún día de estos",
			ok:   false,
		},
		{
			name: "empty",
			text: "",
			ok:   false,
		},
		{
			name: "invalid month rejected",
			text: "15/15/2025",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.text, tt.opts)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCombineTime(t *testing.T) {
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		timeText string
		want     time.Time
	}{
		{"24h clock", "20:30", time.Date(2025, 3, 15, 20, 30, 0, 0, time.UTC)},
		{"12h clock pm", "8:30 pm", time.Date(2025, 3, 15, 20, 30, 0, 0, time.UTC)},
		{"hs suffix", "21hs", time.Date(2025, 3, 15, 21, 0, 0, 0, time.UTC)},
		{"midnight 12h clock", "12:30 am", time.Date(2025, 3, 15, 0, 30, 0, 0, time.UTC)},
		{"noon 12h clock", "12 pm", time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)},
		{"dot separator", "19.45", time.Date(2025, 3, 15, 19, 45, 0, 0, time.UTC)},
		{"unparseable leaves date", "doors open late", date},
		{"out of range leaves date", "99:99", date},
		{"empty leaves date", "", date},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CombineTime(date, tt.timeText)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}
