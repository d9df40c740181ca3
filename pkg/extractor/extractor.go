// Package extractor pulls candidate values for canonical fields out of raw,
// arbitrarily-shaped source records using ordered alias lists.
package extractor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/refdata"
)

// Canonical field names. These key the alias tables in refdata.
const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldDate         = "date"
	FieldEndDate      = "end_date"
	FieldTime         = "time"
	FieldVenueName    = "venue_name"
	FieldVenueAddress = "venue_address"
	FieldCity         = "city"
	FieldNeighborhood = "neighborhood"
	FieldCountry      = "country"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
	FieldCategory     = "category"
	FieldSubcategory  = "subcategory"
	FieldPrice        = "price"
	FieldCurrency     = "currency"
	FieldImageURL     = "image_url"
	FieldEventURL     = "event_url"
	FieldExternalID   = "external_id"
)

// Extractor resolves canonical fields against a raw record. It is side-effect
// free and never errors; absence is represented by nil.
type Extractor struct {
	aliases map[string][]string
}

// New creates an Extractor backed by the given reference tables.
func New(tables *refdata.Tables) *Extractor {
	return &Extractor{aliases: tables.Aliases}
}

// Field returns the value of the first alias key present with a non-null,
// non-empty value, or nil when no alias matches. Alias keys may use dot
// notation for nested records ("venue.name").
func (e *Extractor) Field(raw models.RawRecord, field string) any {
	for _, alias := range e.aliases[field] {
		v := lookup(raw, alias)
		if isEmpty(v) {
			continue
		}
		return v
	}
	return nil
}

// FieldString extracts a field and converts it to a trimmed string.
func (e *Extractor) FieldString(raw models.RawRecord, field string) *string {
	v := e.Field(raw, field)
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(toString(v))
	if s == "" {
		return nil
	}
	return &s
}

// FieldFloat extracts a field as a float, accepting numeric and string forms.
func (e *Extractor) FieldFloat(raw models.RawRecord, field string) *float64 {
	v := e.Field(raw, field)
	if v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return &f
		}
	}
	return nil
}

// lookup walks a dot-notation path through nested maps. A plain key is the
// common case and takes the fast path.
func lookup(raw models.RawRecord, path string) any {
	if !strings.Contains(path, ".") {
		return raw[path]
	}

	var current any = raw
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

// isEmpty reports whether a raw value counts as absent: nil, blank string, or
// an empty collection.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// toString converts any extracted value to a string.
func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case bool:
		return fmt.Sprintf("%t", val)
	case []any:
		// Sources occasionally send single-element arrays; use the first.
		if len(val) > 0 {
			return toString(val[0])
		}
		return ""
	case nil:
		return ""
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
