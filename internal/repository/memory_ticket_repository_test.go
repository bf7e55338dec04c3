package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

func newTicket(id string, status domain.TicketStatus, category domain.TicketCategory) *domain.Ticket {
	return &domain.Ticket{
		ID:          id,
		Name:        "Casey",
		UserEmail:   "casey@example.com",
		Description: "something",
		Category:    category,
		Priority:    domain.TicketPriorityMedium,
		Status:      status,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTicket("t1", domain.TicketStatusOpen, domain.TicketCategoryLogin)))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, domain.TicketCategoryLogin, got.Category)
}

func TestMemoryRepository_CreateRejectsDuplicateID(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTicket("t1", domain.TicketStatusOpen, domain.TicketCategoryLogin)))
	assert.Error(t, repo.Create(ctx, newTicket("t1", domain.TicketStatusOpen, domain.TicketCategoryOther)))
}

func TestMemoryRepository_GetMissing(t *testing.T) {
	repo := NewMemoryTicketRepository()

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTicket("t1", domain.TicketStatusOpen, domain.TicketCategoryLogin)))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	got.Status = domain.TicketStatusResolved

	again, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, again.Status)
}

func TestMemoryRepository_ListPreservesInsertionOrderAndFilters(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTicket("c", domain.TicketStatusOpen, domain.TicketCategoryBilling)))
	require.NoError(t, repo.Create(ctx, newTicket("a", domain.TicketStatusResolved, domain.TicketCategoryBilling)))
	require.NoError(t, repo.Create(ctx, newTicket("b", domain.TicketStatusOpen, domain.TicketCategoryLogin)))

	all, err := repo.List(ctx, TicketFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(all))

	open, err := repo.List(ctx, TicketFilter{Status: domain.TicketStatusOpen})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(open))

	openBilling, err := repo.List(ctx, TicketFilter{Status: domain.TicketStatusOpen, Category: domain.TicketCategoryBilling})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(openBilling))
}

func TestMemoryRepository_UpdateAppliesMutation(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTicket("t1", domain.TicketStatusOpen, domain.TicketCategoryLogin)))

	updated, err := repo.Update(ctx, "t1", func(ticket *domain.Ticket) error {
		ticket.Status = domain.TicketStatusInProgress
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	stored, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
}

func TestMemoryRepository_UpdateAbortsOnError(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTicket("t1", domain.TicketStatusOpen, domain.TicketCategoryLogin)))

	boom := errors.New("boom")
	_, err := repo.Update(ctx, "t1", func(ticket *domain.Ticket) error {
		ticket.Status = domain.TicketStatusResolved
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, stored.Status)
}

func TestMemoryRepository_UpdateMissing(t *testing.T) {
	repo := NewMemoryTicketRepository()

	_, err := repo.Update(context.Background(), "nope", func(*domain.Ticket) error { return nil })
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTicket("a", domain.TicketStatusOpen, domain.TicketCategoryLogin)))
	require.NoError(t, repo.Create(ctx, newTicket("b", domain.TicketStatusOpen, domain.TicketCategoryLogin)))

	require.NoError(t, repo.Delete(ctx, "a"))
	assert.ErrorIs(t, repo.Delete(ctx, "a"), ErrTicketNotFound)

	_, err := repo.GetByID(ctx, "a")
	assert.ErrorIs(t, err, ErrTicketNotFound)

	all, err := repo.List(ctx, TicketFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(all))
}

func TestMemoryRepository_ConcurrentUpdatesAreSerialized(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTicket("t1", domain.TicketStatusOpen, domain.TicketCategoryLogin)))

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			_, _ = repo.Update(ctx, "t1", func(ticket *domain.Ticket) error {
				agent := fmt.Sprintf("agent-%d", i)
				if ticket.AgentAssigned != nil {
					agent = *ticket.AgentAssigned + "," + agent
				}
				ticket.AgentAssigned = &agent
				return nil
			})
		}(i)
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, stored.AgentAssigned)
	assert.Len(t, strings.Split(*stored.AgentAssigned, ","), writers)
}

func ids(tickets []domain.Ticket) []string {
	out := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		out = append(out, ticket.ID)
	}
	return out
}
