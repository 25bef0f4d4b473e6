package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/middleware"
	"github.com/iliyamo/farm-market/internal/service"
)

// BuyerHandler serves /v1/buyer.
type BuyerHandler struct {
	Orders     *service.OrderService
	Dashboards *service.DashboardService
}

type placeOrderReq struct {
	CropID   string  `json:"cropId"`
	Quantity float64 `json:"quantity"`
}

// PlaceOrder orders from an approved listing at its current price.
func (h *BuyerHandler) PlaceOrder(c echo.Context) error {
	var req placeOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.CropID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cropId is required", "fields": []string{"cropId"}})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	o, err := h.Orders.Place(ctx, req.CropID, middleware.UserID(c), req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *BuyerHandler) ListOrders(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	orders, err := h.Dashboards.DescribeBuyerOrders(ctx, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Dashboard returns order counts and the most recent orders.
func (h *BuyerHandler) Dashboard(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	d, err := h.Dashboards.Buyer(ctx, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}
