package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/service"
)

// AdminHandler serves /v1/admin.
type AdminHandler struct {
	Moderation *service.ModerationService
}

func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	s, err := h.Moderation.Stats(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) Listings(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	crops, err := h.Moderation.Listings(ctx, c.QueryParam("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, crops)
}

func (h *AdminHandler) Approve(c echo.Context) error { return h.setApproval(c, true) }

func (h *AdminHandler) Reject(c echo.Context) error { return h.setApproval(c, false) }

func (h *AdminHandler) setApproval(c echo.Context, approved bool) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	crop, found, err := h.Moderation.SetListingApproval(ctx, c.Param("id"), approved)
	if err != nil {
		return fail(c, err)
	}
	return mutation(c, found, "listing", crop)
}

func (h *AdminHandler) Users(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	users, err := h.Moderation.Users(ctx, c.QueryParam("q"))
	if err != nil {
		return fail(c, err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser removes the account only; the user's listings and orders stay.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	removed, err := h.Moderation.RemoveUser(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"changed": removed})
}

func (h *AdminHandler) Orders(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	orders, err := h.Moderation.Orders(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}
