package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/middleware"
	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/service"
)

// FarmerHandler serves /v1/farmer. Every route acts on the caller's own
// listings and the orders placed against them.
type FarmerHandler struct {
	Listings   *service.ListingService
	Orders     *service.OrderService
	Dashboards *service.DashboardService
}

func (h *FarmerHandler) ListListings(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	crops, err := h.Listings.ForOwner(ctx, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, crops)
}

// CreateListing stores a new listing pending admin approval.
func (h *FarmerHandler) CreateListing(c echo.Context) error {
	var in service.ListingInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	me := caller(c)
	crop, err := h.Listings.Create(ctx, in, me.ID, me.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, crop)
}

// UpdateListing serves PUT and PATCH; both merge the given fields and
// send the listing back to moderation.
func (h *FarmerHandler) UpdateListing(c echo.Context) error {
	var patch service.ListingPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	crop, found, err := h.Listings.UpdateOwned(ctx, middleware.UserID(c), c.Param("id"), patch)
	if err != nil {
		return fail(c, err)
	}
	return mutation(c, found, "listing", crop)
}

func (h *FarmerHandler) DeleteListing(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	removed, err := h.Listings.DeleteOwned(ctx, middleware.UserID(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"changed": removed})
}

// Dashboard returns listing stats and the resolved incoming orders.
func (h *FarmerHandler) Dashboard(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	d, err := h.Dashboards.Farmer(ctx, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *FarmerHandler) ListOrders(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	orders, err := h.Dashboards.DescribeFarmerOrders(ctx, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *FarmerHandler) AcceptOrder(c echo.Context) error { return h.decide(c, model.ActionAccept) }

func (h *FarmerHandler) RejectOrder(c echo.Context) error { return h.decide(c, model.ActionReject) }

func (h *FarmerHandler) decide(c echo.Context, action model.OrderAction) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	o, changed, err := h.Orders.DecideOwned(ctx, middleware.UserID(c), c.Param("id"), action)
	if err != nil {
		return fail(c, err)
	}
	return mutation(c, changed, "order", o)
}
