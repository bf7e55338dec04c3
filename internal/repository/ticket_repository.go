package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// ErrTicketNotFound is returned when an id does not identify a stored ticket.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketFilter captures exact-match listing constraints. Empty fields are ignored.
type TicketFilter struct {
	Status   domain.TicketStatus
	Category domain.TicketCategory
}

// Matches reports whether ticket satisfies every set constraint.
func (f TicketFilter) Matches(ticket *domain.Ticket) bool {
	if f.Status != "" && ticket.Status != f.Status {
		return false
	}
	if f.Category != "" && ticket.Category != f.Category {
		return false
	}
	return true
}

// MutateFunc edits a ticket in place. Returning an error aborts the update.
type MutateFunc func(ticket *domain.Ticket) error

// TicketRepository encapsulates ticket persistence.
//
// Update runs the read-modify-write atomically with respect to other writers.
// List returns tickets in insertion order.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Update(ctx context.Context, id string, mutate MutateFunc) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}
