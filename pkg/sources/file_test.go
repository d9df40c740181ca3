package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSourceFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	data := `[{"nombre": "Festival de Jazz", "fecha": "15/03/2025"}, {"nombre": "Obra"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	src := NewFileSource("backfill", path)
	assert.Equal(t, "backfill", src.Name())

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Festival de Jazz", records[0]["nombre"])
}

func TestFileSourceFetchMissingFile(t *testing.T) {
	src := NewFileSource("backfill", "/nonexistent.json")
	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFileSourceFetchInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not an array}"), 0o644))

	src := NewFileSource("backfill", path)
	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}
