// Package builder composes the field extractor and value normalizers into
// fully-populated canonical events.
package builder

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/pkg/extractor"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalize"
	"github.com/Ramsey-B/clover/pkg/refdata"
)

// Builder turns raw source records into canonical events. Records that fail
// required-field validation are returned as Rejections, never as errors, so
// the coordinator can count them and keep going.
type Builder struct {
	tables    *refdata.Tables
	extractor *extractor.Extractor
	geo       *normalize.GeoResolver
}

// New creates a Builder over the given reference tables.
func New(tables *refdata.Tables, geo *normalize.GeoResolver) *Builder {
	return &Builder{
		tables:    tables,
		extractor: extractor.New(tables),
		geo:       geo,
	}
}

// Build normalizes one raw record into a canonical event. Title, city and a
// parseable start date are mandatory; everything else degrades gracefully.
func (b *Builder) Build(raw models.RawRecord, source string) (*models.CanonicalEvent, *models.Rejection) {
	title := b.extractor.FieldString(raw, extractor.FieldTitle)
	if title == nil {
		return nil, &models.Rejection{Reason: models.RejectionMissingTitle}
	}

	dateText := b.extractor.FieldString(raw, extractor.FieldDate)
	if dateText == nil {
		return nil, &models.Rejection{Reason: models.RejectionMissingDate}
	}

	opts := normalize.DateOptions{Order: b.tables.DateOrderFor(source)}
	start, ok := normalize.ParseDate(*dateText, opts)
	if !ok {
		return nil, &models.Rejection{
			Reason: models.RejectionMissingDate,
			Detail: fmt.Sprintf("unparseable date %q", *dateText),
		}
	}
	if timeText := b.extractor.FieldString(raw, extractor.FieldTime); timeText != nil {
		start = normalize.CombineTime(start, *timeText)
	}

	end := start
	if endText := b.extractor.FieldString(raw, extractor.FieldEndDate); endText != nil {
		if parsed, ok := normalize.ParseDate(*endText, opts); ok && !parsed.Before(start) {
			end = parsed
		}
	}

	price := normalize.PriceInfo{}
	if priceText := b.extractor.FieldString(raw, extractor.FieldPrice); priceText != nil {
		price = normalize.ParsePrice(*priceText, b.tables)
	}

	currency := price.Currency
	if c := b.extractor.FieldString(raw, extractor.FieldCurrency); c != nil {
		currency = strings.ToUpper(strings.TrimSpace(*c))
	}
	if currency != "" && len(currency) != 3 {
		return nil, &models.Rejection{
			Reason: models.RejectionInvalidPriceCurrency,
			Detail: fmt.Sprintf("invalid currency %q", currency),
		}
	}

	cityText := stringOrEmpty(b.extractor.FieldString(raw, extractor.FieldCity))
	areaText := stringOrEmpty(b.extractor.FieldString(raw, extractor.FieldNeighborhood))
	lat := b.extractor.FieldFloat(raw, extractor.FieldLatitude)
	lon := b.extractor.FieldFloat(raw, extractor.FieldLongitude)
	loc := b.geo.Resolve(cityText, areaText, lat, lon)
	if loc.City == "" {
		return nil, &models.Rejection{Reason: models.RejectionOther, Detail: "missing city"}
	}
	if country := b.extractor.FieldString(raw, extractor.FieldCountry); country != nil {
		loc.Country = *country
	}

	category := models.CategoryOther
	if catText := b.extractor.FieldString(raw, extractor.FieldCategory); catText != nil {
		category = normalize.MapCategory(*catText, b.tables)
	}

	venueName := stringOrEmpty(b.extractor.FieldString(raw, extractor.FieldVenueName))
	if venueName == "" {
		// Unlike neighborhood, a missing venue gets a placeholder: many
		// legitimate events have no confirmed venue at listing time.
		venueName = models.DefaultVenueName
	}

	event := &models.CanonicalEvent{
		ID:            uuid.NewString(),
		Title:         truncate(*title, models.MaxTitleLength),
		Description:   truncate(stringOrEmpty(b.extractor.FieldString(raw, extractor.FieldDescription)), models.MaxDescriptionLength),
		StartDatetime: start,
		EndDatetime:   end,
		VenueName:     truncate(venueName, models.MaxVenueNameLength),
		VenueAddress:  truncate(stringOrEmpty(b.extractor.FieldString(raw, extractor.FieldVenueAddress)), models.MaxVenueNameLength),
		City:          loc.City,
		Neighborhood:  loc.Neighborhood,
		Country:       loc.Country,
		Latitude:      loc.Latitude,
		Longitude:     loc.Longitude,
		Category:      category,
		Subcategory:   stringOrEmpty(b.extractor.FieldString(raw, extractor.FieldSubcategory)),
		Price:         price.Amount,
		Currency:      currency,
		IsFree:        price.IsFree,
		PriceKnown:    price.Known,
		ImageURL:      truncate(stringOrEmpty(b.extractor.FieldString(raw, extractor.FieldImageURL)), models.MaxURLLength),
		EventURL:      truncate(stringOrEmpty(b.extractor.FieldString(raw, extractor.FieldEventURL)), models.MaxURLLength),
		Source:        source,
		ExternalID:    b.extractor.FieldString(raw, extractor.FieldExternalID),
	}

	// is_free == true must imply price == 0, whatever the numeric noise said.
	if event.IsFree {
		event.Price = 0
	}

	return event, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Cut on a rune boundary.
	runes := []rune(s)
	for len(string(runes)) > max {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
