// Package refdata holds the lookup tables that drive normalization: field
// alias lists, category keyword tables, known sub-city areas with centroids,
// price keywords and per-source locale hints. Tables are loaded once at
// startup and passed by reference into the pure normalization functions, so
// tests can inject a minimal table and new sources never require code changes.
package refdata

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Ramsey-B/clover/pkg/models"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Area is a known sub-city area (neighborhood) with its parent city and an
// approximate centroid used when a source supplies no coordinates.
type Area struct {
	City      string  `yaml:"city"`
	Country   string  `yaml:"country"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// City holds a city centroid and country, used as a coordinate fallback when
// neither the record nor the area table yields a location.
type City struct {
	Country   string  `yaml:"country"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// CategoryKeywords maps a set of multi-language keywords to one category.
// The slice order is the match order; the first keyword hit wins.
type CategoryKeywords struct {
	Category models.Category `yaml:"category"`
	Keywords []string        `yaml:"keywords"`
}

// DateOrder is a per-source hint for ambiguous numeric dates.
type DateOrder string

const (
	// DayFirst is the documented default tie-break for unknown locales.
	DayFirst   DateOrder = "dmy"
	MonthFirst DateOrder = "mdy"
)

// Tables is the full set of injected reference data.
type Tables struct {
	// Aliases maps a canonical field name to the ordered list of raw keys
	// observed across known sources. First present, non-empty alias wins.
	Aliases map[string][]string `yaml:"aliases"`

	Categories []CategoryKeywords `yaml:"categories"`

	// Areas is keyed by the normalized area name (lowercase, trimmed).
	Areas map[string]Area `yaml:"areas"`

	// Cities is keyed by the normalized city name.
	Cities map[string]City `yaml:"cities"`

	FreeKeywords         []string `yaml:"free_keywords"`
	UnknownPriceKeywords []string `yaml:"unknown_price_keywords"`

	// SourceDateOrder maps a source identifier to its numeric date order.
	SourceDateOrder map[string]DateOrder `yaml:"source_date_order"`
}

// Default returns the embedded default tables.
func Default() *Tables {
	t, err := parse(defaultsYAML)
	if err != nil {
		// The embedded defaults are validated by tests; a parse failure here
		// is a build defect.
		panic(fmt.Sprintf("refdata: invalid embedded defaults: %v", err))
	}
	return t
}

// Load reads tables from a YAML file, falling back to the embedded defaults
// for any section the file leaves empty.
func Load(path string) (*Tables, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference data: %w", err)
	}
	t, err := parse(b)
	if err != nil {
		return nil, err
	}
	t.fillDefaults(Default())
	return t, nil
}

func parse(b []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("failed to parse reference data: %w", err)
	}
	t.normalizeKeys()
	return &t, nil
}

func (t *Tables) fillDefaults(d *Tables) {
	if len(t.Aliases) == 0 {
		t.Aliases = d.Aliases
	}
	if len(t.Categories) == 0 {
		t.Categories = d.Categories
	}
	if len(t.Areas) == 0 {
		t.Areas = d.Areas
	}
	if len(t.Cities) == 0 {
		t.Cities = d.Cities
	}
	if len(t.FreeKeywords) == 0 {
		t.FreeKeywords = d.FreeKeywords
	}
	if len(t.UnknownPriceKeywords) == 0 {
		t.UnknownPriceKeywords = d.UnknownPriceKeywords
	}
	if len(t.SourceDateOrder) == 0 {
		t.SourceDateOrder = d.SourceDateOrder
	}
}

// normalizeKeys lowercases and trims all lookup keys so callers can normalize
// input once and hit the tables directly.
func (t *Tables) normalizeKeys() {
	if t.Areas != nil {
		areas := make(map[string]Area, len(t.Areas))
		for k, v := range t.Areas {
			areas[NormalizeKey(k)] = v
		}
		t.Areas = areas
	}
	if t.Cities != nil {
		cities := make(map[string]City, len(t.Cities))
		for k, v := range t.Cities {
			cities[NormalizeKey(k)] = v
		}
		t.Cities = cities
	}
}

// NormalizeKey normalizes a lookup key: lowercase, trimmed, collapsed spaces.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// DateOrderFor returns the numeric date order for a source, defaulting to
// day-first when the source locale is unknown.
func (t *Tables) DateOrderFor(source string) DateOrder {
	if o, ok := t.SourceDateOrder[source]; ok {
		return o
	}
	return DayFirst
}
