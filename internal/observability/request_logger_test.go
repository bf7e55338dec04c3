package observability

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

func TestRequestLogger_StatusFromReturnedError(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/missing/:id", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("ticket", nil)
	})
	app.Get("/bad", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad")
	})

	for _, target := range []string{"/ok", "/missing/abc", "/bad"} {
		_, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), -1)
		require.NoError(t, err)
	}

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Requests["/ok|GET|204"])
	assert.Equal(t, int64(1), snap.Requests["/missing/:id|GET|404"])
	assert.Equal(t, int64(1), snap.Requests["/bad|GET|400"])
	assert.NotContains(t, snap.Requests, "/missing/:id|GET|200")
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, statusFromError(fiber.ErrNotFound))
	assert.Equal(t, fiber.StatusBadRequest, statusFromError(apperrors.NewInvalidArgument("x", nil)))
	assert.Equal(t, fiber.StatusInternalServerError, statusFromError(assert.AnError))
}
