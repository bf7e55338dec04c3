package dto

import (
	"github.com/spec-kit/ticket-insights/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Name        string                `json:"name"`
	UserEmail   string                `json:"user_email"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
}

// UpdateTicketRequest is a partial update; absent fields stay unchanged.
// Identity fields and timestamps are not accepted.
type UpdateTicketRequest struct {
	Status        *domain.TicketStatus   `json:"status"`
	Category      *domain.TicketCategory `json:"category"`
	Priority      *domain.TicketPriority `json:"priority"`
	AgentAssigned *string                `json:"agent_assigned"`
	Response      *string                `json:"response"`
}

// TicketListQuery captures listing filters.
type TicketListQuery struct {
	Status   string `query:"status"`
	Category string `query:"category"`
}

// TrendQuery captures trend parameters.
type TrendQuery struct {
	WindowDays string `query:"window_days"`
}
