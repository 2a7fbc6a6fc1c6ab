package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func corsEcho(origins []string) *echo.Echo {
	e := echo.New()
	e.Use(CORS(origins))
	e.GET("/api/model", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	return e
}

func TestCORSListedOrigin(t *testing.T) {
	e := corsEcho([]string{"https://dash.example"})

	req := httptest.NewRequest(http.MethodGet, "/api/model", nil)
	req.Header.Set(echo.HeaderOrigin, "https://dash.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "https://dash.example" {
		t.Fatalf("allow-origin %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/model", nil)
	req.Header.Set(echo.HeaderOrigin, "https://other.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "" {
		t.Fatalf("unlisted origin got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unlisted origin should still be served, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	e := corsEcho([]string{"*"})
	req := httptest.NewRequest(http.MethodOptions, "/api/model", nil)
	req.Header.Set(echo.HeaderOrigin, "https://dash.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderAccessControlAllowOrigin) != "*" {
		t.Fatalf("wildcard origin not set")
	}
	if rec.Header().Get(echo.HeaderAccessControlAllowMethods) != "GET, POST, OPTIONS" {
		t.Fatalf("methods %q", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	}
}
