package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/market"
	"github.com/iliyamo/farm-market/internal/service"
	"github.com/iliyamo/farm-market/internal/views"
)

// CatalogHandler serves the public buyer catalog and the market price board.
type CatalogHandler struct {
	Dashboards *service.DashboardService
	Prices     *market.Board
}

// Listings answers GET /v1/listings?q=&category=&min_price=&max_price=.
func (h *CatalogHandler) Listings(c echo.Context) error {
	f, err := parseListingFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	crops, err := h.Dashboards.Catalog(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, crops)
}

// Categories answers GET /v1/listings/categories.
func (h *CatalogHandler) Categories(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	cats, err := h.Dashboards.Categories(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}

// MarketPrices answers GET /v1/market-prices?q=.
func (h *CatalogHandler) MarketPrices(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Prices.Search(c.QueryParam("q")))
}

type filterError string

func (e filterError) Error() string { return string(e) }

func parseListingFilter(c echo.Context) (views.ListingFilter, error) {
	f := views.ListingFilter{
		Search:   strings.TrimSpace(c.QueryParam("q")),
		Category: strings.TrimSpace(c.QueryParam("category")),
	}
	var err error
	if f.MinPrice, err = priceParam(c, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = priceParam(c, "max_price"); err != nil {
		return f, err
	}
	return f, nil
}

func priceParam(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, filterError("invalid " + name)
	}
	return &v, nil
}
