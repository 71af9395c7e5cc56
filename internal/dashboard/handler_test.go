package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/rolodex/internal/middleware"
	"github.com/keyxmakerx/rolodex/internal/plugins/contacts"
)

func newTestServer(t *testing.T) (*echo.Echo, *Dashboard, *fixture) {
	t.Helper()
	f := newFixture()
	d := newBootstrapped(t, f)

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(nil)
	RegisterRoutes(e.Group("/dashboard/api"), NewHandler(d))
	return e, d, f
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ListContacts(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/dashboard/api/contacts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got ListView[ContactView]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Entities, 3)
	assert.Equal(t, "Ana", got.Entities[0].Name)
	assert.Equal(t, []string{"vip", "unknown tag"}, got.Entities[0].TagNames)
	assert.False(t, got.Loading)
	assert.Nil(t, got.Error)
}

func TestHandler_CreateThenList(t *testing.T) {
	e, d, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/dashboard/api/contacts", `{"name":"Dana","tagIds":["t-lead"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created contacts.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "new-1", created.ID)
	assert.Equal(t, contacts.CategoryOther, created.Category)

	assert.Equal(t, 4, d.Contacts.State().Count())
}

func TestHandler_UpdateMissingReconciles(t *testing.T) {
	e, d, f := newTestServer(t)
	f.contacts.remove("c3")

	rec := doRequest(e, http.MethodPatch, "/dashboard/api/contacts/c3", `{"name":"Cyrus"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found","message":"record not found"}`, rec.Body.String())

	_, ok := d.Contacts.Get("c3")
	assert.False(t, ok)
}

func TestHandler_DeleteAndGet(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/dashboard/api/campaigns/k1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodDelete, "/dashboard/api/campaigns/k1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(e, http.MethodGet, "/dashboard/api/campaigns/k1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Selection(t *testing.T) {
	e, d, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPut, "/dashboard/api/contacts/selection", `{"ids":["c2","ghost","c1"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"selectedIds":["c1","c2"]}`, rec.Body.String())

	rec = doRequest(e, http.MethodPost, "/dashboard/api/contacts/selection/c1/toggle", "")
	assert.JSONEq(t, `{"selected":false}`, rec.Body.String())

	rec = doRequest(e, http.MethodPost, "/dashboard/api/contacts/selection/tags", `{"tagId":"t-lead"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":1}`, rec.Body.String())
	c2, _ := d.Contacts.Get("c2")
	assert.Equal(t, []string{"t-lead"}, c2.TagIDs)

	rec = doRequest(e, http.MethodDelete, "/dashboard/api/contacts/selection", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, d.Contacts.State().SelectedIDs)
}

func TestHandler_SearchAndSummary(t *testing.T) {
	e, d, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/dashboard/api/tags/search", `{"query":" vip "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "vip", d.Tags.State().SearchQuery)

	rec = doRequest(e, http.MethodGet, "/dashboard/api/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var s Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 3, s.Contacts)
	assert.Equal(t, 2, s.CampaignsByStatus["active"])
}

func TestHandler_BadJSON(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/dashboard/api/tags", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"bad_request"`)
}
