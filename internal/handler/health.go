package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/store"
)

// HealthHandler reports liveness and whether the store answers.
type HealthHandler struct {
	KV      store.KV
	Backend string
}

// Health answers GET /healthz. A store read error turns it into a 503 so
// load balancers stop routing to an instance that cannot serve data.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	if _, _, err := h.KV.Get(ctx, store.KeyUsers); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "store": h.Backend, "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "store": h.Backend})
}
