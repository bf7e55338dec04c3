package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-insights/internal/domain"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

const (
	exportSheetName  = "Tickets"
	exportTimeLayout = "2006-01-02 15:04:05"
)

var exportColumns = []string{
	"ID", "Name", "Email", "Description", "Category", "Priority", "Status",
	"Created At", "Updated At", "Resolved At", "Agent", "Response",
}

// ExportService renders ticket listings as spreadsheets.
type ExportService struct {
	tickets *TicketService
	logger  *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(tickets *TicketService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{tickets: tickets, logger: logger}
}

// ExportTickets lists tickets with filter and writes them to an XLSX workbook.
func (s *ExportService) ExportTickets(ctx context.Context, filter ListFilter) ([]byte, error) {
	tickets, err := s.tickets.ListTickets(ctx, filter)
	if err != nil {
		return nil, err
	}
	data, err := TicketsToXLSX(tickets)
	if err != nil {
		s.logger.Error("ticket export failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	return data, nil
}

// TicketsToXLSX writes one header row followed by one row per ticket.
func TicketsToXLSX(tickets []domain.Ticket) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, col); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(exportSheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for rowIdx, ticket := range tickets {
		row := []any{
			ticket.ID,
			ticket.Name,
			ticket.UserEmail,
			ticket.Description,
			string(ticket.Category),
			string(ticket.Priority),
			string(ticket.Status),
			ticket.CreatedAt.Format(exportTimeLayout),
			ticket.UpdatedAt.Format(exportTimeLayout),
			"",
			"",
			"",
		}
		if ticket.ResolvedAt != nil {
			row[9] = ticket.ResolvedAt.Format(exportTimeLayout)
		}
		if ticket.AgentAssigned != nil {
			row[10] = *ticket.AgentAssigned
		}
		if ticket.Response != nil {
			row[11] = *ticket.Response
		}

		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", rowIdx+2, err)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(exportSheetName, col, col, 18); err != nil {
			return nil, err
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
