package webserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/catalogadmin/config"
	"github.com/talkincode/catalogadmin/internal/auth"
)

func TestUnknownRouteUsesErrorBody(t *testing.T) {
	s := newTestServer(t, auth.NewTokenService([]byte("k"), time.Hour, ""))

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.NotEmpty(t, body.Message)
	assert.Empty(t, body.Error)
}

func TestPanicIsServerError(t *testing.T) {
	s := newTestServer(t, auth.NewTokenService([]byte("k"), time.Hour, ""))
	s.GET("/boom", func(c echo.Context) error {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server error", body.Message)
	assert.Contains(t, body.Error, "boom")
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, auth.NewTokenService([]byte("k"), time.Hour, ""))
	s.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, auth.NewTokenService([]byte("k"), time.Hour, ""))

	req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, auth.NewTokenService([]byte("k"), time.Hour, ""))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "catalogadmin_requests_total"))
}

func TestMetricsDisabled(t *testing.T) {
	cfg := *config.DefaultAppConfig
	cfg.Web.Metrics = false
	s := New(&cfg, auth.NewTokenService([]byte("k"), time.Hour, ""))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJSONSerializerRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t, auth.NewTokenService([]byte("k"), time.Hour, ""))
	s.POST("/echo", func(c echo.Context) error {
		var v struct {
			Name string `json:"name" validate:"required"`
		}
		if err := c.Bind(&v); err != nil {
			return err
		}
		if err := c.Validate(&v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "name is required")
		}
		return c.JSON(http.StatusOK, v)
	})

	tests := []struct {
		body   string
		status int
	}{
		{`{"name":"widget"}`, http.StatusOK},
		{`{"name":`, http.StatusBadRequest},
		{`{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tt.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		assert.Equal(t, tt.status, rec.Code, tt.body)
	}
}
