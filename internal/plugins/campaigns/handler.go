package campaigns

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/rolodex/internal/apperror"
)

// Handler handles HTTP requests for campaigns.
type Handler struct {
	service CampaignService
}

// NewHandler creates a new campaign handler.
func NewHandler(service CampaignService) *Handler {
	return &Handler{service: service}
}

// List returns all campaigns, or those matching ?q= (GET /api/v1/campaigns).
func (h *Handler) List(c echo.Context) error {
	campaigns, err := h.service.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaigns)
}

// Get returns one campaign (GET /api/v1/campaigns/:id).
func (h *Handler) Get(c echo.Context) error {
	campaign, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaign)
}

// Create stores a new campaign (POST /api/v1/campaigns).
func (h *Handler) Create(c echo.Context) error {
	var req Draft
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	campaign, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, campaign)
}

// Update changes an existing campaign (PATCH /api/v1/campaigns/:id).
func (h *Handler) Update(c echo.Context) error {
	var req Patch
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}

	campaign, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaign)
}

// Delete removes a campaign (DELETE /api/v1/campaigns/:id).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
