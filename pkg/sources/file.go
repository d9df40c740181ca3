package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Ramsey-B/clover/pkg/models"
)

// FileSource reads a JSON array of raw records from disk. Used for bulk
// back-fills and fixtures.
type FileSource struct {
	name string
	path string
}

// NewFileSource builds a file-backed source.
func NewFileSource(name, path string) *FileSource {
	return &FileSource{name: name, path: path}
}

// Name returns the stable source identifier.
func (s *FileSource) Name() string {
	return s.name
}

// Fetch reads and decodes the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", s.path, err)
	}
	var records []models.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse source file %s: %w", s.path, err)
	}
	return records, nil
}
