package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInMemoryDispatcher_PublishToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var created, deleted []Event
	d.Subscribe(EventProjectCreated, func(_ context.Context, e Event) error {
		created = append(created, e)
		return nil
	})
	d.Subscribe(EventProjectDeleted, func(_ context.Context, e Event) error {
		deleted = append(deleted, e)
		return nil
	})

	event := NewEvent(EventProjectCreated, "p-1", Actor{Username: "ada"}, time.Now(), nil)
	require.NoError(t, d.Publish(context.Background(), event))

	require.Len(t, created, 1)
	assert.Equal(t, "p-1", created[0].ProjectID)
	assert.NotEmpty(t, created[0].ID)
	assert.Empty(t, deleted)
}

func TestInMemoryDispatcher_HandlerErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	calls := 0
	d.Subscribe(EventProjectUpdated, func(context.Context, Event) error {
		calls++
		return errors.New("sink down")
	})
	d.Subscribe(EventProjectUpdated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventProjectUpdated, "p-2", Actor{}, time.Now(), ProjectUpdatedPayload{Fields: []string{"name"}}))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	a := NewEvent(EventProjectCreated, "p", Actor{}, time.Now(), nil)
	b := NewEvent(EventProjectCreated, "p", Actor{}, time.Now(), nil)
	assert.NotEqual(t, a.ID, b.ID)
}
