package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/refdata"
)

func TestGeoResolverPromotesAreaInCityField(t *testing.T) {
	geo := NewGeoResolverWithSeed(refdata.Default(), 1)

	loc := geo.Resolve("Palermo", "", nil, nil)

	assert.Equal(t, "Buenos Aires", loc.City)
	require.NotNil(t, loc.Neighborhood)
	assert.Equal(t, "Palermo", *loc.Neighborhood)
	assert.Equal(t, "Argentina", loc.Country)
	require.NotNil(t, loc.Latitude)
	require.NotNil(t, loc.Longitude)
	assert.InDelta(t, -34.5780, *loc.Latitude, jitterDegrees)
	assert.InDelta(t, -58.4260, *loc.Longitude, jitterDegrees)
}

func TestGeoResolverCityWithSeparateArea(t *testing.T) {
	geo := NewGeoResolverWithSeed(refdata.Default(), 1)

	loc := geo.Resolve("Buenos Aires", "San Telmo", nil, nil)

	assert.Equal(t, "Buenos Aires", loc.City)
	require.NotNil(t, loc.Neighborhood)
	assert.Equal(t, "San Telmo", *loc.Neighborhood)
	require.NotNil(t, loc.Latitude)
	assert.InDelta(t, -34.6210, *loc.Latitude, jitterDegrees)
}

func TestGeoResolverKeepsSuppliedCoordinates(t *testing.T) {
	geo := NewGeoResolverWithSeed(refdata.Default(), 1)
	lat, lon := -34.6000, -58.4000

	loc := geo.Resolve("Palermo", "", &lat, &lon)

	require.NotNil(t, loc.Latitude)
	require.NotNil(t, loc.Longitude)
	assert.Equal(t, lat, *loc.Latitude)
	assert.Equal(t, lon, *loc.Longitude)
}

func TestGeoResolverCityCentroidFallback(t *testing.T) {
	geo := NewGeoResolverWithSeed(refdata.Default(), 1)

	loc := geo.Resolve("Madrid", "", nil, nil)

	assert.Equal(t, "Madrid", loc.City)
	assert.Nil(t, loc.Neighborhood)
	assert.Equal(t, "Spain", loc.Country)
	require.NotNil(t, loc.Latitude)
	assert.InDelta(t, 40.4168, *loc.Latitude, jitterDegrees)
}

func TestGeoResolverUnknownCityPassesThrough(t *testing.T) {
	geo := NewGeoResolverWithSeed(refdata.Default(), 1)

	loc := geo.Resolve("Springfield", "", nil, nil)

	assert.Equal(t, "Springfield", loc.City)
	assert.Nil(t, loc.Neighborhood)
	assert.Nil(t, loc.Latitude)
	assert.Nil(t, loc.Longitude)
}

func TestGeoResolverJitterVaries(t *testing.T) {
	geo := NewGeoResolverWithSeed(refdata.Default(), 1)

	a := geo.Resolve("Palermo", "", nil, nil)
	b := geo.Resolve("Palermo", "", nil, nil)

	require.NotNil(t, a.Latitude)
	require.NotNil(t, b.Latitude)
	assert.NotEqual(t, *a.Latitude, *b.Latitude)
}

func TestParentCity(t *testing.T) {
	geo := NewGeoResolverWithSeed(refdata.Default(), 1)

	assert.Equal(t, "Buenos Aires", geo.ParentCity("Palermo"))
	assert.Equal(t, "Buenos Aires", geo.ParentCity("  san telmo "))
	assert.Equal(t, "Madrid", geo.ParentCity("Madrid"))
	assert.Equal(t, "Nowhere", geo.ParentCity("Nowhere"))
}
