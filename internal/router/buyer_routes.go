package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/handler"
	"github.com/iliyamo/farm-market/internal/middleware"
	"github.com/iliyamo/farm-market/internal/model"
)

// registerBuyer mounts /v1/buyer. Browsing the catalog is public; placing
// and listing orders needs a buyer token.
func registerBuyer(e *echo.Echo, h *handler.BuyerHandler, jwtSecret string) {
	g := e.Group("/v1/buyer",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleBuyer),
	)
	g.POST("/orders", h.PlaceOrder)
	g.GET("/orders", h.ListOrders)
	g.GET("/stats", h.Dashboard)
}
