package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
)

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// TicketCategory is the label assigned by the categorizer.
type TicketCategory string

const (
	TicketCategoryLogin     TicketCategory = "Login"
	TicketCategoryBilling   TicketCategory = "Billing"
	TicketCategoryTechnical TicketCategory = "Technical"
	TicketCategoryOther     TicketCategory = "Other"
)

// TicketCategories lists every category in evaluation order.
var TicketCategories = []TicketCategory{
	TicketCategoryLogin,
	TicketCategoryBilling,
	TicketCategoryTechnical,
	TicketCategoryOther,
}

// Valid reports whether c is a known category.
func (c TicketCategory) Valid() bool {
	for _, candidate := range TicketCategories {
		if c == candidate {
			return true
		}
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// TicketPriorities lists every priority from least to most urgent.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityCritical,
}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	for _, candidate := range TicketPriorities {
		if p == candidate {
			return true
		}
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	UserEmail     string         `json:"user_email"`
	Description   string         `json:"description"`
	Category      TicketCategory `json:"category"`
	Priority      TicketPriority `json:"priority"`
	Status        TicketStatus   `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	ResolvedAt    *time.Time     `json:"resolved_at"`
	AgentAssigned *string        `json:"agent_assigned"`
	Response      *string        `json:"response"`
}

// Clone returns a deep copy so callers never share pointer fields with the store.
func (t Ticket) Clone() Ticket {
	out := t
	if t.ResolvedAt != nil {
		resolved := *t.ResolvedAt
		out.ResolvedAt = &resolved
	}
	if t.AgentAssigned != nil {
		agent := *t.AgentAssigned
		out.AgentAssigned = &agent
	}
	if t.Response != nil {
		response := *t.Response
		out.Response = &response
	}
	return out
}

// MarkStatus applies a status and stamps ResolvedAt on the first resolution.
// A later move away from Resolved keeps the original timestamp.
func (t *Ticket) MarkStatus(status TicketStatus, now time.Time) {
	t.Status = status
	if status == TicketStatusResolved && t.ResolvedAt == nil {
		resolved := now
		t.ResolvedAt = &resolved
	}
}
