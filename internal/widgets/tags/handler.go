package tags

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/rolodex/internal/apperror"
)

// Handler handles HTTP requests for tag operations. Handlers are thin:
// bind request, call service, render response.
type Handler struct {
	service TagService
}

// NewHandler creates a new tag handler backed by the given service.
func NewHandler(service TagService) *Handler {
	return &Handler{service: service}
}

// List returns all tags, or those matching ?q= (GET /api/v1/tags).
func (h *Handler) List(c echo.Context) error {
	tags, err := h.service.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

// Get returns a single tag (GET /api/v1/tags/:id).
func (h *Handler) Get(c echo.Context) error {
	tag, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

// Create creates a new tag (POST /api/v1/tags).
func (h *Handler) Create(c echo.Context) error {
	var req Draft
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	tag, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tag)
}

// Update changes an existing tag (PATCH /api/v1/tags/:id).
func (h *Handler) Update(c echo.Context) error {
	var req Patch
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	tag, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

// Delete removes a tag (DELETE /api/v1/tags/:id).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
