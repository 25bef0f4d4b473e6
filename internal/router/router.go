// Package router mounts the handlers on echo with their middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/handler"
	"github.com/iliyamo/farm-market/internal/middleware"
	"github.com/iliyamo/farm-market/internal/model"
)

// Handlers bundles everything the routes need.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Farmer  *handler.FarmerHandler
	Buyer   *handler.BuyerHandler
	Chat    *handler.ChatHandler
	Admin   *handler.AdminHandler
}

// Options carries the cross-cutting middleware built by the caller.
type Options struct {
	JWTSecret string
	// Cache wraps the public read-only endpoints; nil disables it.
	Cache echo.MiddlewareFunc
}

// Register mounts every route on e.
func Register(e *echo.Echo, h Handlers, opts Options) {
	e.GET("/healthz", h.Health.Health)

	registerAuth(e, h.Auth, opts.JWTSecret)
	registerPublic(e, h.Catalog, opts.Cache)
	registerChat(e, h.Chat, opts.JWTSecret)
	registerFarmer(e, h.Farmer, opts.JWTSecret)
	registerBuyer(e, h.Buyer, opts.JWTSecret)
	registerAdmin(e, h.Admin, opts.JWTSecret)
}

func registerAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	authed := g.Group("", middleware.JWTAuth(jwtSecret))
	authed.POST("/logout", a.Logout)
	authed.GET("/session", a.Session)
}

func registerPublic(e *echo.Echo, p *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if cache != nil {
		mw = append(mw, cache)
	}
	e.GET("/v1/market-prices", p.MarketPrices, mw...)
	e.GET("/v1/listings", p.Listings)
	e.GET("/v1/listings/categories", p.Categories, mw...)
}

func registerChat(e *echo.Echo, h *handler.ChatHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleFarmer, model.RoleBuyer, model.RoleAdmin),
	)
	g.POST("/messages", h.Send)
	g.GET("/conversations", h.Conversations)
	g.GET("/conversations/:chatId", h.Conversation)
}
