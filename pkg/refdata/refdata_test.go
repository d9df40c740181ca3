package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

func TestDefaultTables(t *testing.T) {
	tables := Default()

	require.NotEmpty(t, tables.Aliases)
	assert.Contains(t, tables.Aliases, "title")
	assert.Contains(t, tables.Aliases["title"], "nombre")

	require.NotEmpty(t, tables.Categories)
	// Match order matters: festival must fire before music and cultural must
	// stay the catch-all at the end.
	assert.Equal(t, models.CategoryFestival, tables.Categories[0].Category)
	assert.Equal(t, models.CategoryCultural, tables.Categories[len(tables.Categories)-1].Category)

	area, ok := tables.Areas["san telmo"]
	require.True(t, ok)
	assert.Equal(t, "Buenos Aires", area.City)

	_, ok = tables.Cities["buenos aires"]
	assert.True(t, ok)

	assert.NotEmpty(t, tables.FreeKeywords)
	assert.NotEmpty(t, tables.UnknownPriceKeywords)
}

func TestLoadPartialFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refdata.yaml")
	content := "free_keywords: [regalado]\n" +
		"areas:\n" +
		"  Villa Crespo: {city: Buenos Aires, country: Argentina, latitude: -34.5990, longitude: -58.4380}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tables, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"regalado"}, tables.FreeKeywords)

	// Area keys are normalized on load.
	area, ok := tables.Areas["villa crespo"]
	require.True(t, ok)
	assert.Equal(t, "Buenos Aires", area.City)

	// Untouched sections come from the embedded defaults.
	assert.Contains(t, tables.Aliases, "title")
	assert.NotEmpty(t, tables.Categories)
	assert.NotEmpty(t, tables.UnknownPriceKeywords)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/refdata.yaml")
	assert.Error(t, err)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "san telmo", NormalizeKey("  San   Telmo "))
	assert.Equal(t, "palermo", NormalizeKey("PALERMO"))
	assert.Equal(t, "", NormalizeKey("   "))
}

func TestDateOrderFor(t *testing.T) {
	tables := Default()

	assert.Equal(t, MonthFirst, tables.DateOrderFor("ticketmaster-us"))
	assert.Equal(t, DayFirst, tables.DateOrderFor("eventos-ba"))
	assert.Equal(t, DayFirst, tables.DateOrderFor(""))
}
