package events

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/interfaces"
	"github.com/ternarybob/treatyview/internal/models"
)

// NewLoggerSubscriber creates an event handler that logs dataset events
func NewLoggerSubscriber(logger arbor.ILogger) interfaces.EventHandler {
	return func(ctx context.Context, event interfaces.Event) error {
		payload, ok := event.Payload.(models.DatasetEvent)
		if !ok {
			logger.Debug().
				Str("event_type", string(event.Type)).
				Msg("Event published")
			return nil
		}

		if payload.Error != "" {
			logger.Warn().
				Str("event_type", string(event.Type)).
				Str("source", payload.Source).
				Str("error", payload.Error).
				Msg("Dataset reload failed")
			return nil
		}

		logger.Info().
			Str("event_type", string(event.Type)).
			Str("snapshot_id", payload.SnapshotID).
			Str("source", payload.Source).
			Int("records", payload.RecordsLoaded).
			Msg("Dataset reloaded")
		return nil
	}
}

// SubscribeLoggerToAllEvents subscribes the logger to all known event types
func SubscribeLoggerToAllEvents(eventService interfaces.EventService, logger arbor.ILogger) error {
	subscriber := NewLoggerSubscriber(logger)

	for _, eventType := range interfaces.AllEventTypes {
		if err := eventService.Subscribe(eventType, subscriber); err != nil {
			return fmt.Errorf("failed to subscribe logger to event type %s: %w", eventType, err)
		}
	}

	return nil
}
