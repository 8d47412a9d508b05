package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProjectCreated EventType = "project_created"
	EventProjectUpdated EventType = "project_updated"
	EventProjectDeleted EventType = "project_deleted"
)

// Actor identifies who triggered an event, as asserted by the verified token.
type Actor struct {
	Username string `json:"username"`
	Subject  string `json:"subject,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

// Event represents a project lifecycle change emitted by the service layer.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ProjectID string      `json:"project_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(eventType EventType, projectID string, actor Actor, at time.Time, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ProjectID: projectID,
		Actor:     actor,
		Timestamp: at,
		Payload:   payload,
	}
}

// ProjectUpdatedPayload lists the fields a partial update touched.
type ProjectUpdatedPayload struct {
	Fields []string `json:"fields"`
}
