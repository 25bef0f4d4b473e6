package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/handler"
	"github.com/iliyamo/farm-market/internal/middleware"
	"github.com/iliyamo/farm-market/internal/model"
)

// registerFarmer mounts /v1/farmer; every route needs a farmer token.
func registerFarmer(e *echo.Echo, h *handler.FarmerHandler, jwtSecret string) {
	g := e.Group("/v1/farmer",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleFarmer),
	)

	g.GET("/listings", h.ListListings)
	g.POST("/listings", h.CreateListing)
	g.PUT("/listings/:id", h.UpdateListing)
	g.PATCH("/listings/:id", h.UpdateListing)
	g.DELETE("/listings/:id", h.DeleteListing)

	g.GET("/stats", h.Dashboard)
	g.GET("/orders", h.ListOrders)
	g.POST("/orders/:id/accept", h.AcceptOrder)
	g.POST("/orders/:id/reject", h.RejectOrder)
}
