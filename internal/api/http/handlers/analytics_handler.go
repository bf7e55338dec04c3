package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-insights/internal/api/dto"
	"github.com/spec-kit/ticket-insights/internal/service"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

// AnalyticsHandler serves dashboard aggregates.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: analyticsService}
}

// Summary GET /analytics.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// Trend GET /analytics/trend.
func (h *AnalyticsHandler) Trend(c *fiber.Ctx) error {
	var query dto.TrendQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewInvalidArgument("invalid query", nil)
	}

	windowDays := 0
	if raw := strings.TrimSpace(query.WindowDays); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return apperrors.NewInvalidArgument("window_days must be a positive integer", map[string]any{"window_days": raw})
		}
		windowDays = parsed
	}

	trend, err := h.service.Trend(c.UserContext(), windowDays)
	if err != nil {
		return err
	}
	return c.JSON(trend)
}
