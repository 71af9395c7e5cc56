package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/rolodex/internal/apperror"
	"github.com/keyxmakerx/rolodex/internal/entitysync"
	"github.com/keyxmakerx/rolodex/internal/plugins/campaigns"
	"github.com/keyxmakerx/rolodex/internal/plugins/contacts"
	"github.com/keyxmakerx/rolodex/internal/widgets/tags"
)

// Handler serves the dashboard JSON API.
type Handler struct {
	dash      *Dashboard
	contacts  *kindHandler[contacts.Contact, contacts.Draft, contacts.Patch, ContactView]
	campaigns *kindHandler[campaigns.Campaign, campaigns.Draft, campaigns.Patch, CampaignView]
	tags      *kindHandler[tags.Tag, tags.Draft, tags.Patch, tags.Tag]
}

// NewHandler creates a handler for d.
func NewHandler(d *Dashboard) *Handler {
	return &Handler{
		dash:      d,
		contacts:  &kindHandler[contacts.Contact, contacts.Draft, contacts.Patch, ContactView]{ctrl: d.Contacts, view: d.ContactsView},
		campaigns: &kindHandler[campaigns.Campaign, campaigns.Draft, campaigns.Patch, CampaignView]{ctrl: d.Campaigns, view: d.CampaignsView},
		tags:      &kindHandler[tags.Tag, tags.Draft, tags.Patch, tags.Tag]{ctrl: d.Tags, view: d.TagsView},
	}
}

// Summary returns the derived counts (GET /dashboard/api/summary).
func (h *Handler) Summary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dash.Summary())
}

// Reload reloads every kind (POST /dashboard/api/reload).
func (h *Handler) Reload(c echo.Context) error {
	if err := h.dash.Bootstrap(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.dash.Summary())
}

type tagRequest struct {
	TagID string `json:"tagId"`
}

type bulkResponse struct {
	Updated int `json:"updated"`
}

// AssignTag adds a tag to the selected contacts
// (POST /dashboard/api/contacts/selection/tags).
func (h *Handler) AssignTag(c echo.Context) error {
	var req tagRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}
	n, err := h.dash.AssignTagToSelected(c.Request().Context(), req.TagID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bulkResponse{Updated: n})
}

// RemoveTag drops a tag from the selected contacts
// (DELETE /dashboard/api/contacts/selection/tags/:tagId).
func (h *Handler) RemoveTag(c echo.Context) error {
	n, err := h.dash.RemoveTagFromSelected(c.Request().Context(), c.Param("tagId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bulkResponse{Updated: n})
}

// --- Per-kind endpoints ---

// kindHandler serves the list, mutation and selection endpoints of one
// kind. V is the rendered entity type.
type kindHandler[T entitysync.Entity, D, P, V any] struct {
	ctrl *entitysync.Controller[T, D, P]
	view func() ListView[V]
}

func (h *kindHandler[T, D, P, V]) list(c echo.Context) error {
	return c.JSON(http.StatusOK, h.view())
}

func (h *kindHandler[T, D, P, V]) load(c echo.Context) error {
	if err := h.ctrl.Load(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view())
}

type searchRequest struct {
	Query string `json:"query"`
}

func (h *kindHandler[T, D, P, V]) search(c echo.Context) error {
	var req searchRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}
	if err := h.ctrl.Search(c.Request().Context(), req.Query); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view())
}

func (h *kindHandler[T, D, P, V]) get(c echo.Context) error {
	rec, ok := h.ctrl.Get(c.Param("id"))
	if !ok {
		return apperror.NewNotFound(h.ctrl.Kind() + " not found")
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *kindHandler[T, D, P, V]) create(c echo.Context) error {
	var draft D
	if err := json.NewDecoder(c.Request().Body).Decode(&draft); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}
	rec, err := h.ctrl.Create(c.Request().Context(), draft)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *kindHandler[T, D, P, V]) update(c echo.Context) error {
	var patch P
	if err := json.NewDecoder(c.Request().Body).Decode(&patch); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}
	ctx := c.Request().Context()
	rec, err := h.ctrl.Update(ctx, c.Param("id"), patch)
	if err != nil {
		return Reconcile(ctx, err, h.ctrl.Load)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *kindHandler[T, D, P, V]) delete(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.ctrl.Delete(ctx, c.Param("id")); err != nil {
		return Reconcile(ctx, err, h.ctrl.Load)
	}
	return c.NoContent(http.StatusNoContent)
}

type selectRequest struct {
	IDs []string `json:"ids"`
}

type selectionResponse struct {
	SelectedIDs []string `json:"selectedIds"`
}

func (h *kindHandler[T, D, P, V]) selection(c echo.Context) error {
	return c.JSON(http.StatusOK, selectionResponse{SelectedIDs: h.ctrl.State().SelectedIDs})
}

func (h *kindHandler[T, D, P, V]) selectIDs(c echo.Context) error {
	var req selectRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperror.NewBadRequest("invalid JSON body")
	}
	h.ctrl.Select(req.IDs)
	return h.selection(c)
}

func (h *kindHandler[T, D, P, V]) toggle(c echo.Context) error {
	selected := h.ctrl.Toggle(c.Param("id"))
	return c.JSON(http.StatusOK, map[string]bool{"selected": selected})
}

func (h *kindHandler[T, D, P, V]) clearSelection(c echo.Context) error {
	h.ctrl.ClearSelection()
	return c.NoContent(http.StatusNoContent)
}
