package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-insights/internal/api/dto"
	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/service"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	export  *service.ExportService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, exportService *service.ExportService) *TicketsHandler {
	return &TicketsHandler{service: ticketService, export: exportService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Name:        req.Name,
		UserEmail:   req.UserEmail,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter, err := parseListQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return c.JSON(tickets)
}

// ExportTickets GET /tickets/export.
func (h *TicketsHandler) ExportTickets(c *fiber.Ctx) error {
	filter, err := parseListQuery(c)
	if err != nil {
		return err
	}
	data, err := h.export.ExportTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Attachment("tickets.xlsx")
	return c.Send(data)
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewInvalidArgument("invalid payload", nil)
		}
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), service.TicketPatch{
		Status:        req.Status,
		Category:      req.Category,
		Priority:      req.Priority,
		AgentAssigned: req.AgentAssigned,
		Response:      req.Response,
	})
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseListQuery(c *fiber.Ctx) (service.ListFilter, error) {
	var query dto.TicketListQuery
	if err := c.QueryParser(&query); err != nil {
		return service.ListFilter{}, apperrors.NewInvalidArgument("invalid query", nil)
	}
	return service.ListFilter{Status: query.Status, Category: query.Category}, nil
}
