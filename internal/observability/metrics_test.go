package observability_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/observability"
)

var _ inventory.MovementRecorder = (*observability.Metrics)(nil)

func TestMetrics_ExposesCounters(t *testing.T) {
	m := observability.NewMetrics()
	m.MovementApplied("RECEIPT")
	m.MovementApplied("RECEIPT")
	m.MovementRejected("SHIPMENT", "INSUFFICIENT_QUANTITY")

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `inventory_movements_applied_total{type="RECEIPT"} 2`)
	assert.Contains(t, text, `inventory_movements_rejected_total{reason="INSUFFICIENT_QUANTITY",type="SHIPMENT"} 1`)
	assert.Contains(t, text, `inventory_http_requests_total{code="200",method="GET",route="/ping"} 1`)
}
