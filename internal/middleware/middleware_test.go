package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/rolodex/internal/apperror"
)

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRateLimiter_Window(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := &rateLimiter{
		entries:     map[string]*rateLimitEntry{},
		maxRequests: 2,
		window:      time.Minute,
		now:         func() time.Time { return now },
	}

	assert.True(t, l.allow("1.2.3.4"))
	assert.True(t, l.allow("1.2.3.4"))
	assert.False(t, l.allow("1.2.3.4"))
	assert.True(t, l.allow("5.6.7.8"), "limits are per IP")

	now = now.Add(2 * time.Minute)
	assert.True(t, l.allow("1.2.3.4"), "new window resets the count")
}

func TestRateLimit_Returns429(t *testing.T) {
	e := echo.New()
	h := RateLimit(1, time.Minute)(okHandler)

	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRecovery_ConvertsPanic(t *testing.T) {
	e := echo.New()
	h := Recovery()(func(echo.Context) error { panic("boom") })

	err := h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()))
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.TypeInternal, appErr.Type)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	e := echo.New()
	h := RequestLogger(nil)(okHandler)

	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	e := echo.New()
	h := CORS(CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example.com")
	rec = httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, SecurityHeaders()(okHandler)(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestTrustedProxies(t *testing.T) {
	e := echo.New()
	require.NoError(t, TrustedProxies(e, []string{"10.0.0.0/8"}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	req.Header.Set(echo.HeaderXForwardedFor, "203.0.113.7")
	assert.Equal(t, "203.0.113.7", e.IPExtractor(req))

	assert.Error(t, TrustedProxies(e, []string{"not-a-cidr"}))
}

func TestErrorHandler_RendersAppError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/contacts/x", nil), rec)

	ErrorHandler(nil)(apperror.NewNotFound("contact not found"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found","message":"contact not found"}`, rec.Body.String())
}

func TestErrorHandler_EchoAndUnknownErrors(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	ErrorHandler(nil)(echo.ErrMethodNotAllowed, e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Method Not Allowed"`)

	rec = httptest.NewRecorder()
	ErrorHandler(nil)(errors.New("sql: connection refused"), e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"internal_error"`)
	assert.NotContains(t, rec.Body.String(), "sql:")
}
