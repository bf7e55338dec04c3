package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkStatus_StampsFirstResolutionOnly(t *testing.T) {
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	ticket := Ticket{Status: TicketStatusOpen, CreatedAt: created}

	first := created.Add(2 * time.Hour)
	ticket.MarkStatus(TicketStatusResolved, first)
	require.NotNil(t, ticket.ResolvedAt)
	assert.Equal(t, first, *ticket.ResolvedAt)

	ticket.MarkStatus(TicketStatusOpen, first.Add(time.Hour))
	assert.Equal(t, TicketStatusOpen, ticket.Status)
	require.NotNil(t, ticket.ResolvedAt)
	assert.Equal(t, first, *ticket.ResolvedAt)

	ticket.MarkStatus(TicketStatusResolved, first.Add(5*time.Hour))
	assert.Equal(t, first, *ticket.ResolvedAt)
}

func TestMarkStatus_NonResolvedLeavesTimestampAbsent(t *testing.T) {
	ticket := Ticket{Status: TicketStatusOpen}
	ticket.MarkStatus(TicketStatusInProgress, time.Now())

	assert.Equal(t, TicketStatusInProgress, ticket.Status)
	assert.Nil(t, ticket.ResolvedAt)
}

func TestClone_DetachesPointers(t *testing.T) {
	agent := "sam"
	resolved := time.Now()
	original := Ticket{AgentAssigned: &agent, ResolvedAt: &resolved}

	clone := original.Clone()
	*clone.AgentAssigned = "alex"

	assert.Equal(t, "sam", *original.AgentAssigned)
	assert.NotSame(t, original.ResolvedAt, clone.ResolvedAt)
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, TicketStatus("In Progress").Valid())
	assert.False(t, TicketStatus("IN_PROGRESS").Valid())
	assert.False(t, TicketStatus("").Valid())

	assert.True(t, TicketCategory("Billing").Valid())
	assert.False(t, TicketCategory("billing").Valid())

	assert.True(t, TicketPriority("Critical").Valid())
	assert.False(t, TicketPriority("Urgent").Valid())
}
