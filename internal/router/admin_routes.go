package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/handler"
	"github.com/iliyamo/farm-market/internal/middleware"
	"github.com/iliyamo/farm-market/internal/model"
)

// registerAdmin mounts the moderation endpoints under /v1/admin.
func registerAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/stats", h.Stats)
	g.GET("/listings", h.Listings)
	g.POST("/listings/:id/approve", h.Approve)
	g.POST("/listings/:id/reject", h.Reject)
	g.GET("/users", h.Users)
	g.DELETE("/users/:id", h.DeleteUser)
	g.GET("/orders", h.Orders)
}
