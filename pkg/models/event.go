package models

import (
	"errors"
	"time"
)

// Field length caps applied before an event is constructed.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 5000
	MaxVenueNameLength   = 255
	MaxURLLength         = 500
)

// DefaultVenueName is stored when a source lists an event without a confirmed
// venue. Many legitimate listings have no venue at publication time, so this is
// a placeholder rather than a rejection. Neighborhood is the opposite case: an
// absent neighborhood stays nil and must never be filled with a placeholder.
const DefaultVenueName = "To be confirmed"

// ErrDuplicateEvent is returned by the event repository when an insert hits the
// (city, start_date, title) unique index. The coordinator counts this as a
// duplicate detected late, not a failure.
var ErrDuplicateEvent = errors.New("event already exists")

// Category is the fixed event category taxonomy.
type Category string

const (
	CategoryMusic     Category = "music"
	CategoryTheater   Category = "theater"
	CategorySports    Category = "sports"
	CategoryCultural  Category = "cultural"
	CategoryFood      Category = "food"
	CategoryTech      Category = "tech"
	CategoryNightlife Category = "nightlife"
	CategoryFestival  Category = "festival"
	CategoryOther     Category = "other"
)

// RawRecord is an untyped record as produced by a source adapter. Keys vary by
// source language and naming convention; any field may be missing.
type RawRecord = map[string]any

// CanonicalEvent is the normalized unit of storage.
// Field order matches schema: id, title, description, start_datetime, ...
type CanonicalEvent struct {
	ID            string     `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	StartDatetime time.Time  `json:"start_datetime" db:"start_datetime"`
	EndDatetime   time.Time  `json:"end_datetime" db:"end_datetime"`
	VenueName     string     `json:"venue_name" db:"venue_name"`
	VenueAddress  string     `json:"venue_address" db:"venue_address"`
	City          string     `json:"city" db:"city"`
	Neighborhood  *string    `json:"neighborhood,omitempty" db:"neighborhood"`
	Country       string     `json:"country" db:"country"`
	Latitude      *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64   `json:"longitude,omitempty" db:"longitude"`
	Category      Category   `json:"category" db:"category"`
	Subcategory   string     `json:"subcategory" db:"subcategory"`
	Price         float64    `json:"price" db:"price"`
	Currency      string     `json:"currency" db:"currency"`
	IsFree        bool       `json:"is_free" db:"is_free"`
	PriceKnown    bool       `json:"price_known" db:"price_known"`
	ImageURL      string     `json:"image_url" db:"image_url"`
	EventURL      string     `json:"event_url" db:"event_url"`
	Source        string     `json:"source" db:"source"`
	ExternalID    *string    `json:"external_id,omitempty" db:"external_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// StartDate returns the calendar-day portion of the start datetime in UTC.
// It defines the duplicate-detection window together with City.
func (e *CanonicalEvent) StartDate() time.Time {
	t := e.StartDatetime.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SearchQuery is the query contract consumed by the API layer. CityOrArea may
// name a known sub-city area; the query layer promotes it to the parent city
// the same way ingestion does.
type SearchQuery struct {
	CityOrArea string     `json:"city_or_area" query:"city" validate:"required"`
	Category   Category   `json:"category,omitempty" query:"category" validate:"omitempty,oneof=music theater sports cultural food tech nightlife festival other"`
	DateFrom   *time.Time `json:"date_from,omitempty" query:"date_from"`
	DateTo     *time.Time `json:"date_to,omitempty" query:"date_to"`
	Limit      int        `json:"limit,omitempty" query:"limit" validate:"omitempty,min=1,max=500"`
}
