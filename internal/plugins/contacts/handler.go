package contacts

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/rolodex/internal/apperror"
)

// Handler handles HTTP requests for contacts.
type Handler struct {
	service ContactService
}

// NewHandler creates a new contact handler.
func NewHandler(service ContactService) *Handler {
	return &Handler{service: service}
}

// List returns all contacts, or those matching ?q= (GET /api/v1/contacts).
func (h *Handler) List(c echo.Context) error {
	contacts, err := h.service.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contacts)
}

// Get returns one contact (GET /api/v1/contacts/:id).
func (h *Handler) Get(c echo.Context) error {
	contact, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contact)
}

// Create stores a new contact (POST /api/v1/contacts).
func (h *Handler) Create(c echo.Context) error {
	var req Draft
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	contact, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, contact)
}

// Update changes an existing contact (PATCH /api/v1/contacts/:id).
func (h *Handler) Update(c echo.Context) error {
	var req Patch
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	contact, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contact)
}

// Delete removes a contact (DELETE /api/v1/contacts/:id).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
