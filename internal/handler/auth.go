package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/middleware"
	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/service"
	"github.com/iliyamo/farm-market/internal/utils"
)

// AuthHandler serves /v1/auth.
type AuthHandler struct {
	Identity     *service.IdentityService
	JWTSecret    string
	AccessTTLMin int
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User   model.User `json:"user"`
	Access tokenPart  `json:"access"`
}

// Register creates a farmer or buyer account and returns an access token.
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Identity.Register(ctx, req)
	if err != nil {
		return fail(c, err)
	}
	return h.respond(c, http.StatusCreated, u)
}

// Login resolves the account for email and role.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role, ok := model.ParseRole(req.Role)
	if req.Email == "" || !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and role (farmer, buyer or admin) are required"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Identity.Login(ctx, req.Email, req.Password, role)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return fail(c, err)
	}
	return h.respond(c, http.StatusOK, u)
}

// Logout clears the mirrored session when it belongs to the caller.
// Issued tokens stay valid until they expire.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	u, ok, err := h.Identity.Current(ctx)
	if err != nil {
		return fail(c, err)
	}
	if ok && u.ID == middleware.UserID(c) {
		if err := h.Identity.Logout(ctx); err != nil {
			return fail(c, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Session returns the mirrored current user when it is the caller.
func (h *AuthHandler) Session(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	u, ok, err := h.Identity.Current(ctx)
	if err != nil {
		return fail(c, err)
	}
	if !ok || u.ID != middleware.UserID(c) {
		return c.JSON(http.StatusOK, echo.Map{"loggedIn": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"loggedIn": true, "user": u})
}

func (h *AuthHandler) respond(c echo.Context, status int, u model.User) error {
	access, err := utils.NewAccessToken(h.JWTSecret, u.ID, string(u.Role), u.Name, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access token failed"})
	}
	u.PasswordHash = ""
	return c.JSON(status, authResp{User: u, Access: tokenPart{Token: access.Token, Expires: access.Exp}})
}
