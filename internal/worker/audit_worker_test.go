package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/project-service/internal/events"
)

func TestStartAuditWorker(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher(logger)

	StartAuditWorker(dispatcher, logger)

	actor := events.Actor{Username: "ada@example.com", TenantID: "tenant-123"}
	for _, eventType := range []events.EventType{
		events.EventProjectCreated,
		events.EventProjectUpdated,
		events.EventProjectDeleted,
	} {
		require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(eventType, "p-1", actor, time.Now(), nil)))
	}

	entries := logs.FilterMessage("project event").All()
	require.Len(t, entries, 3)
	fields := entries[0].ContextMap()
	assert.Equal(t, "project_created", fields["event_type"])
	assert.Equal(t, "ada@example.com", fields["actor"])
	assert.Equal(t, "tenant-123", fields["tenant_id"])
	assert.Equal(t, "audit", entries[0].LoggerName)
}

func TestStartAuditWorker_NilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() { StartAuditWorker(nil, zap.NewNop()) })
}
