package kafka

import (
	"encoding/json"
	"time"

	"github.com/Ramsey-B/clover/pkg/models"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string
}

// RawBatchMessage is a batch of raw records published by a fleet adapter.
type RawBatchMessage struct {
	Source  string             `json:"source"`
	Records []models.RawRecord `json:"records"`
}

// ImageEnrichedMessage back-fills an image URL for a stored event.
type ImageEnrichedMessage struct {
	Type     string `json:"type"` // "event.image_enriched"
	EventID  string `json:"event_id"`
	ImageURL string `json:"image_url"`
}

// ParseRawBatch parses the message value as a raw record batch. The source
// header wins over the body when both are set, so adapters that only tag
// headers still route correctly.
func (m *IncomingMessage) ParseRawBatch() (*RawBatchMessage, error) {
	var batch RawBatchMessage
	if err := json.Unmarshal(m.Value, &batch); err != nil {
		return nil, err
	}
	if src := m.Headers["source"]; src != "" {
		batch.Source = src
	}
	return &batch, nil
}

// IsImageEnriched checks if the message is an image enrichment event.
func (m *IncomingMessage) IsImageEnriched() bool {
	if m.Headers["type"] == "event.image_enriched" {
		return true
	}
	var evt ImageEnrichedMessage
	if err := json.Unmarshal(m.Value, &evt); err == nil {
		return evt.Type == "event.image_enriched"
	}
	return false
}

// ParseImageEnriched parses the message as an image enrichment event.
func (m *IncomingMessage) ParseImageEnriched() (*ImageEnrichedMessage, error) {
	var evt ImageEnrichedMessage
	if err := json.Unmarshal(m.Value, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}
