package normalize

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Ramsey-B/clover/pkg/refdata"
)

// jitterDegrees bounds the random offset applied to table centroids, roughly
// ±500m. Applied once at build time so a stored event keeps a stable pin.
const jitterDegrees = 0.005

// Location is a resolved location hierarchy. Neighborhood stays nil when the
// source supplied none; it is never coerced to a placeholder.
type Location struct {
	City         string
	Neighborhood *string
	Country      string
	Latitude     *float64
	Longitude    *float64
}

// GeoResolver resolves city/neighborhood text against the known-area table.
// The promotion rule — a city field that actually names a known sub-city area
// resolves to the parent city, keeping the area as neighborhood — is entirely
// table-driven; no source-specific branching.
type GeoResolver struct {
	tables *refdata.Tables

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGeoResolver creates a resolver with a time-seeded jitter source.
func NewGeoResolver(tables *refdata.Tables) *GeoResolver {
	return &GeoResolver{
		tables: tables,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewGeoResolverWithSeed creates a resolver with a deterministic jitter
// source, for tests.
func NewGeoResolverWithSeed(tables *refdata.Tables, seed int64) *GeoResolver {
	return &GeoResolver{
		tables: tables,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Resolve maps raw city/area text and optional coordinates to a canonical
// location. Supplied coordinates are always kept as-is; otherwise the area or
// city centroid is used, jittered so co-located events don't collapse into a
// single map pin.
func (g *GeoResolver) Resolve(cityText, areaText string, lat, lon *float64) Location {
	loc := Location{City: cityText}

	cityKey := refdata.NormalizeKey(cityText)
	areaKey := refdata.NormalizeKey(areaText)

	var centroidLat, centroidLon float64
	haveCentroid := false

	// The city field may itself name a known sub-city area ("Palermo").
	if area, ok := g.tables.Areas[cityKey]; ok {
		loc.City = area.City
		loc.Country = area.Country
		if areaText == "" {
			name := cityText
			loc.Neighborhood = &name
		}
		centroidLat, centroidLon = area.Latitude, area.Longitude
		haveCentroid = true
	}

	if areaText != "" {
		name := areaText
		loc.Neighborhood = &name
		if area, ok := g.tables.Areas[areaKey]; ok {
			if loc.City == "" || cityKey == "" {
				loc.City = area.City
			}
			if loc.Country == "" {
				loc.Country = area.Country
			}
			centroidLat, centroidLon = area.Latitude, area.Longitude
			haveCentroid = true
		}
	}

	if city, ok := g.tables.Cities[refdata.NormalizeKey(loc.City)]; ok {
		if loc.Country == "" {
			loc.Country = city.Country
		}
		if !haveCentroid {
			centroidLat, centroidLon = city.Latitude, city.Longitude
			haveCentroid = true
		}
	}

	if lat != nil && lon != nil {
		loc.Latitude, loc.Longitude = lat, lon
		return loc
	}

	if haveCentroid {
		jLat := centroidLat + g.jitter()
		jLon := centroidLon + g.jitter()
		loc.Latitude, loc.Longitude = &jLat, &jLon
	}

	return loc
}

// ParentCity returns the parent city for text naming a known sub-city area,
// or the text itself otherwise. The query layer uses this so a search for a
// neighborhood surfaces events stored under the promoted parent city.
func (g *GeoResolver) ParentCity(cityOrArea string) string {
	if area, ok := g.tables.Areas[refdata.NormalizeKey(cityOrArea)]; ok {
		return area.City
	}
	return cityOrArea
}

func (g *GeoResolver) jitter() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return (g.rng.Float64()*2 - 1) * jitterDegrees
}
