package services

import (
	"context"
	"time"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/events"

	"go.uber.org/zap"
)

// publishEvent sends event and only logs failures; the operation that raised
// it has already succeeded.
func publishEvent(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, event events.DomainEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish domain event",
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateId", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}

func recordLatency(ctx context.Context, metrics ports.MetricsRecorder, operation string, start time.Time) {
	if metrics == nil {
		return
	}
	metrics.RecordLatency(ctx, operation, time.Since(start))
}

func recordCount(ctx context.Context, metrics ports.MetricsRecorder, name string, dimensions map[string]string) {
	if metrics == nil {
		return
	}
	metrics.RecordCount(ctx, name, 1, dimensions)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
