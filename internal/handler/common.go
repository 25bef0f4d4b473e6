// Package handler implements the HTTP API over the marketplace services.
// Handlers bind and check input, enforce ownership and translate service
// errors into status codes.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/middleware"
	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/repository"
	"github.com/iliyamo/farm-market/internal/store"
)

const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// caller is the authenticated user as described by the access token.
func caller(c echo.Context) model.User {
	return model.User{
		ID:   middleware.UserID(c),
		Name: middleware.Name(c),
		Role: model.Role(middleware.Role(c)),
	}
}

// fail writes the JSON error response for err.
func fail(c echo.Context, err error) error {
	var ve *repository.ValidationError
	switch {
	case errors.As(err, &ve):
		body := echo.Map{"error": ve.Message}
		if len(ve.Fields) > 0 {
			body["fields"] = ve.Fields
		}
		return c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict), errors.Is(err, store.ErrVersionConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "concurrent update, retry"})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "store timeout"})
	}
	slog.Error("request failed", "path", c.Path(), "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// mutation reports the outcome of an update whose target may not exist.
func mutation(c echo.Context, changed bool, key string, v any) error {
	body := echo.Map{"changed": changed}
	if changed {
		body[key] = v
	}
	return c.JSON(http.StatusOK, body)
}
