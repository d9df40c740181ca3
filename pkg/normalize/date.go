// Package normalize provides the pure value-normalization functions of the
// ingestion pipeline: dates, prices, categories and locations. Every function
// takes its lookup tables as input and reports failure through return values;
// nothing in this package panics or reaches for global state.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Ramsey-B/clover/pkg/refdata"
)

// DateOptions tunes defensive date parsing per record.
type DateOptions struct {
	// Order resolves ambiguous numeric dates (01/02/2025). Day-first is the
	// documented default when the source locale is unknown.
	Order refdata.DateOrder
	// DefaultYear fills textual dates that omit the year ("15 de noviembre").
	// Zero means the current year.
	DefaultYear int
}

var (
	// "2025-11-07/2025-11-16" — ISO range, keep the start date.
	isoRangeRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*/\s*\d{4}-\d{2}-\d{2}$`)
	// "15/03/2025 - 20/03/2025", "15/03/2025 al 20/03/2025"
	numericRangeRe = regexp.MustCompile(`(?i)^(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})\s*(?:-|–|a|al|hasta)\s*\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}$`)
	// "15 al 20 de noviembre" — textual range, keep the start day.
	textualRangeRe = regexp.MustCompile(`(?i)^(\d{1,2})\s+(?:al?|-|–|hasta(?:\s+el)?)\s+\d{1,2}\s+(de\s+.*)$`)

	numericDateRe = regexp.MustCompile(`^(\d{1,4})[/.-](\d{1,2})[/.-](\d{1,4})(?:[ T](\d{1,2}):(\d{2}))?`)
	textualDateRe = regexp.MustCompile(`(?i)^(\d{1,2})(?:º|°)?\s+(?:de\s+)?([\p{L}]+)(?:\s+(?:de(?:l)?\s+)?(\d{4}))?`)
)

// isoLayouts are tried in order before locale-dependent parsing kicks in.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04",
	"2006/01/02",
}

// englishLayouts cover month-name formats common in English-language feeds.
var englishLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
}

// monthNames maps localized month names (es, pt, fr, de, en) to month numbers.
var monthNames = map[string]time.Month{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4, "mayo": 5, "junio": 6,
	"julio": 7, "agosto": 8, "septiembre": 9, "setiembre": 9, "octubre": 10,
	"noviembre": 11, "diciembre": 12,
	"janeiro": 1, "fevereiro": 2, "março": 3, "marco": 3, "maio": 5, "junho": 6,
	"julho": 7, "setembro": 9, "outubro": 10, "novembro": 11, "dezembro": 12,
	"janvier": 1, "février": 2, "fevrier": 2, "mars": 3, "avril": 4, "mai": 5,
	"juin": 6, "juillet": 7, "août": 8, "aout": 8, "septembre": 9, "octobre": 10,
	"novembre": 11, "décembre": 12, "decembre": 12,
	"januar": 1, "februar": 2, "märz": 3, "marz": 3, "april": 4, "juni": 6,
	"juli": 7, "oktober": 10, "dezember": 12,
	"january": 1, "february": 2, "march": 3, "may": 5, "june": 6, "july": 7,
	"august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
}

// ParseDate parses a date string defensively, trying ISO layouts, numeric
// day/month formats and localized month names, collapsing date ranges to
// their start date. Returns ok=false on total failure; the caller decides
// whether that is fatal.
func ParseDate(text string, opts DateOptions) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	text = collapseRange(text)

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), true
		}
	}

	if t, ok := parseNumeric(text, opts.Order); ok {
		return t, true
	}

	if t, ok := parseTextual(text, opts.DefaultYear); ok {
		return t, true
	}

	for _, layout := range englishLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

// CombineTime merges a separately-supplied time-of-day string ("20:30",
// "8:30 PM", "21hs") into a date. Unparseable time text leaves the date as is.
func CombineTime(date time.Time, timeText string) time.Time {
	timeText = strings.ToLower(strings.TrimSpace(timeText))
	if timeText == "" {
		return date
	}

	m := timeOfDayRe.FindStringSubmatch(timeText)
	if m == nil {
		return date
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if strings.Contains(timeText, "pm") && hour < 12 {
		hour += 12
	}
	if strings.Contains(timeText, "am") && hour == 12 {
		hour = 0
	}
	if hour > 23 || minute > 59 {
		return date
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

var timeOfDayRe = regexp.MustCompile(`^(\d{1,2})(?:[:.h](\d{2}))?`)

// collapseRange strips date-range notation, keeping only the start date.
func collapseRange(text string) string {
	if m := isoRangeRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := numericRangeRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := textualRangeRe.FindStringSubmatch(text); m != nil {
		return m[1] + " " + m[2]
	}
	return text
}

// parseNumeric handles slash/dash/dot separated numeric dates. A component
// greater than 12 disambiguates regardless of the configured order.
func parseNumeric(text string, order refdata.DateOrder) (time.Time, bool) {
	m := numericDateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	c, _ := strconv.Atoi(m[3])

	var day, month, year int
	if a > 999 { // YYYY/MM/DD
		year, month, day = a, b, c
	} else { // year last, two- or four-digit
		year = c
		day, month = a, b
		if order == refdata.MonthFirst {
			day, month = b, a
		}
		// A component above 12 overrides the locale hint.
		if a > 12 {
			day, month = a, b
		} else if b > 12 {
			day, month = b, a
		}
	}

	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if m[4] != "" {
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		if hour < 24 && minute < 60 {
			t = t.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
		}
	}
	return t, true
}

// parseTextual handles localized month-name dates like "15 de marzo de 2024"
// or "3 octobre 2025". Missing years fall back to defaultYear.
func parseTextual(text string, defaultYear int) (time.Time, bool) {
	m := textualDateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, ok := monthNames[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}

	year := defaultYear
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}
	if year == 0 {
		year = time.Now().UTC().Year()
	}
	if day < 1 || day > 31 {
		return time.Time{}, false
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}
