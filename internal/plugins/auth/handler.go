package auth

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/rolodex/internal/apperror"
)

// Handler handles HTTP requests for accounts and sessions.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// Register creates an account (POST /api/v1/auth/register).
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	user, err := h.service.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// SignIn opens a session (POST /api/v1/auth/sign-in).
func (h *Handler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	token, err := h.service.SignIn(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

// Refresh extends the caller's session (POST /api/v1/auth/refresh).
func (h *Handler) Refresh(c echo.Context) error {
	token, err := h.service.Refresh(c.Request().Context(), BearerToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

// SignOut ends the caller's session (POST /api/v1/auth/sign-out).
func (h *Handler) SignOut(c echo.Context) error {
	if err := h.service.SignOut(c.Request().Context(), BearerToken(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated session (GET /api/v1/auth/me).
func (h *Handler) Me(c echo.Context) error {
	session := GetSession(c)
	if session == nil {
		return apperror.NewUnauthorized("authentication required")
	}
	return c.JSON(http.StatusOK, session)
}
