package events

import (
	"time"

	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventRequestStatusChanged EventType = "request_status_changed"
	EventRequestDeleted       EventType = "request_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id"`
	Username  string      `json:"username"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	Department string `json:"department"`
	Title      string `json:"title"`
}

// RequestStatusChangedPayload payload.
type RequestStatusChangedPayload struct {
	OldStatus domain.RequestStatus `json:"old_status"`
	NewStatus domain.RequestStatus `json:"new_status"`
}

// RequestDeletedPayload payload.
type RequestDeletedPayload struct {
	Department string `json:"department"`
}
