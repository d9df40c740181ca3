package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// EventService mirrors accepted events into the graph as
// (Event)-[:AT]->(Venue)-[:IN]->(City). The relational store stays the
// source of truth; the graph exists for venue and city traversal queries.
type EventService struct {
	client *Client
	logger *zap.Logger
}

// NewEventService creates a new event projection service
func NewEventService(client *Client, logger *zap.Logger) *EventService {
	return &EventService{
		client: client,
		logger: logger,
	}
}

// ProjectEvent creates or updates the graph projection of an event. MERGE on
// every node keeps re-projection idempotent.
func (s *EventService) ProjectEvent(ctx context.Context, event *models.CanonicalEvent) error {
	ctx, span := tracing.StartSpan(ctx, "graph.EventService.ProjectEvent")
	defer span.End()

	props := map[string]any{
		"id":             event.ID,
		"title":          event.Title,
		"category":       string(event.Category),
		"start_datetime": event.StartDatetime.UTC().Format("2006-01-02T15:04:05Z"),
		"is_free":        event.IsFree,
		"source":         event.Source,
	}
	if event.Neighborhood != nil {
		props["neighborhood"] = *event.Neighborhood
	}

	cypher := `
		MERGE (c:City {name: $city})
		SET c.country = $country
		MERGE (v:Venue {name: $venue, city: $city})
		MERGE (v)-[:IN]->(c)
		MERGE (e:Event {id: $id})
		SET e = $props
		MERGE (e)-[:AT]->(v)
		RETURN e
	`

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"id":      event.ID,
			"city":    event.City,
			"country": event.Country,
			"venue":   event.VenueName,
			"props":   props,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		s.logger.Error("Failed to project event to graph",
			zap.String("event_id", event.ID),
			zap.String("city", event.City),
			zap.Error(err),
		)
		return fmt.Errorf("failed to project event to graph: %w", err)
	}

	s.logger.Debug("Projected event to graph", zap.String("event_id", event.ID))
	return nil
}

// VenueEventCounts returns how many events each venue in a city hosts.
func (s *EventService) VenueEventCounts(ctx context.Context, city string) (map[string]int64, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.EventService.VenueEventCounts")
	defer span.End()

	cypher := `
		MATCH (e:Event)-[:AT]->(v:Venue)-[:IN]->(c:City {name: $city})
		RETURN v.name AS venue, count(e) AS events
	`

	result, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{"city": city})
		if err != nil {
			return nil, err
		}
		counts := make(map[string]int64)
		for res.Next(ctx) {
			rec := res.Record()
			venue, _ := rec.Get("venue")
			count, _ := rec.Get("events")
			name, ok := venue.(string)
			n, ok2 := count.(int64)
			if ok && ok2 {
				counts[name] = n
			}
		}
		return counts, res.Err()
	})
	if err != nil {
		s.logger.Error("Failed to count venue events", zap.String("city", city), zap.Error(err))
		return nil, fmt.Errorf("failed to count venue events: %w", err)
	}
	return result.(map[string]int64), nil
}
