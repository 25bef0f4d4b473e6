package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/utils"
)

// UserID returns the authenticated user's id, or "" before JWTAuth ran.
func UserID(c echo.Context) string { return ctxString(c, CtxUserID) }

// Role returns the authenticated user's role claim.
func Role(c echo.Context) string { return ctxString(c, CtxRole) }

// Name returns the authenticated user's display name claim.
func Name(c echo.Context) string { return ctxString(c, CtxName) }

func ctxString(c echo.Context, key string) string {
	s, _ := c.Get(key).(string)
	return s
}

// rateKeyUser identifies the caller for rate limiting. The limiter runs
// ahead of JWTAuth, so the bearer token is parsed here; an invalid or
// missing token counts as anonymous.
func rateKeyUser(c echo.Context, secret string) string {
	if id := UserID(c); id != "" {
		return id
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if secret != "" && strings.HasPrefix(auth, "Bearer ") {
		if claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer ")); err == nil {
			return claims.Subject
		}
	}
	return "anon"
}
