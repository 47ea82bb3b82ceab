package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of draft event
type EventType string

const (
	EventTypeDraftStarted   EventType = "DraftStarted"
	EventTypePickStarted    EventType = "PickStarted"
	EventTypePickMade       EventType = "PickMade"
	EventTypeDraftStalled   EventType = "DraftStalled"
	EventTypeDraftCompleted EventType = "DraftCompleted"
	EventTypeDraftStopped   EventType = "DraftStopped"
)

// Envelope is the wire form of every draft event.
type Envelope struct {
	ID        uuid.UUID       `json:"id"`
	SessionID uuid.UUID       `json:"session_id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// New wraps payload in an Envelope with a fresh event ID.
func New(sessionID uuid.UUID, eventType EventType, at time.Time, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		ID:        uuid.New(),
		SessionID: sessionID,
		Type:      eventType,
		Timestamp: at.UTC(),
		Payload:   data,
	}, nil
}
