package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types published by the submission service.
const (
	SubmissionUploaded = "submission.uploaded"
	SubmissionFlagged  = "submission.flagged"
	SubmissionDeleted  = "submission.deleted"
	UserRegistered     = "user.registered"
	PasswordRecovered  = "user.password_recovered"
)

// Source identifies this service in the event envelope.
const Source = "submission-service"

// Event is the envelope for everything published to the event bus.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent creates an event envelope with generated ID and timestamp.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    Source,
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes events to the configured transport.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// SubmissionEvent is the payload for submission lifecycle events.
type SubmissionEvent struct {
	SubmissionID uint   `json:"submission_id"`
	Email        string `json:"email"`
	Subject      string `json:"subject"`
	Kind         string `json:"kind"`
	Status       string `json:"status"`
	FraudScore   int    `json:"fraud_score,omitempty"`
	FlaggedBy    string `json:"flagged_by,omitempty"`
}

// UserEvent is the payload for account lifecycle events.
type UserEvent struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
