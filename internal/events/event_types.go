package events

import (
	"time"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated          EventType = "ticket_created"
	EventTicketStatusChanged    EventType = "ticket_status_changed"
	EventTicketUpdated          EventType = "ticket_updated"
	EventTicketResponseAttached EventType = "ticket_response_attached"
	EventTicketDeleted          EventType = "ticket_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Category domain.TicketCategory `json:"category"`
	Priority domain.TicketPriority `json:"priority"`
	Status   domain.TicketStatus   `json:"status"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus  domain.TicketStatus `json:"old_status"`
	NewStatus  domain.TicketStatus `json:"new_status"`
	ResolvedAt *time.Time          `json:"resolved_at,omitempty"`
}

// TicketUpdatedPayload lists the fields a partial update touched.
type TicketUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// TicketResponseAttachedPayload payload.
type TicketResponseAttachedPayload struct {
	ResponsePreview string `json:"response_preview"`
}
