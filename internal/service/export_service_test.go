package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

func TestTicketsToXLSX(t *testing.T) {
	resolved := time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC)
	agent := "Jordan"
	tickets := []domain.Ticket{
		{
			ID:            "t-1",
			Name:          "Avery",
			UserEmail:     "avery@example.com",
			Description:   "password reset",
			Category:      domain.TicketCategoryLogin,
			Priority:      domain.TicketPriorityHigh,
			Status:        domain.TicketStatusResolved,
			CreatedAt:     time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
			UpdatedAt:     resolved,
			ResolvedAt:    &resolved,
			AgentAssigned: &agent,
		},
	}

	data, err := TicketsToXLSX(tickets)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportColumns, rows[0])
	assert.Equal(t, "t-1", rows[1][0])
	assert.Equal(t, "Login", rows[1][4])
	assert.Equal(t, "Resolved", rows[1][6])
	assert.Equal(t, "2024-03-04 09:00:00", rows[1][7])
	assert.Equal(t, "2024-03-04 11:00:00", rows[1][9])
	assert.Equal(t, "Jordan", rows[1][10])
}

func TestExportService_AppliesFilter(t *testing.T) {
	tickets, _, _ := newTestTicketService(t)
	createTicket(t, tickets, "login fails")
	createTicket(t, tickets, "invoice missing")

	data, err := NewExportService(tickets, nil).ExportTickets(context.Background(), ListFilter{Category: "Billing"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Billing", rows[1][4])
}
