package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/project-service/internal/events"
)

// StartAuditWorker registers a handler that writes every project lifecycle event to the audit log.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")
	handler := func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("project_id", event.ProjectID),
			zap.String("actor", event.Actor.Username),
			zap.Time("at", event.Timestamp),
		}
		if event.Actor.TenantID != "" {
			fields = append(fields, zap.String("tenant_id", event.Actor.TenantID))
		}
		if event.Payload != nil {
			fields = append(fields, zap.Any("payload", event.Payload))
		}
		audit.Info("project event", fields...)
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventProjectCreated,
		events.EventProjectUpdated,
		events.EventProjectDeleted,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
