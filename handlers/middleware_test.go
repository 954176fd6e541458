package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	middleware := SecurityHeadersMiddleware(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)

	expectedHeaders := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "SAMEORIGIN",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for key, expectedValue := range expectedHeaders {
		assert.Equal(t, expectedValue, rr.Header().Get(key), key)
	}

	csp := rr.Header().Get("Content-Security-Policy")
	for _, directive := range []string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline' https://unpkg.com",
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com",
		"font-src 'self' https://fonts.gstatic.com",
		"img-src 'self' data:",
	} {
		assert.Contains(t, csp, directive)
	}
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCacheControlHeaders(t *testing.T) {
	middleware := SecurityHeadersMiddleware(okHandler())

	req := httptest.NewRequest("GET", "/inventory", nil)
	w := httptest.NewRecorder()
	middleware.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	req = httptest.NewRequest("GET", "/static/css/style.css", nil)
	w = httptest.NewRecorder()
	middleware.ServeHTTP(w, req)
	assert.NotContains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestCORSMiddleware(t *testing.T) {
	called := false
	middleware := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("OPTIONS", "/api/snacks", nil)
	req.Header.Set("Origin", "http://example.com")
	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)

	assert.Equal(t, "http://example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, GET, OPTIONS, PUT, DELETE", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.True(t, strings.Contains(rr.Header().Get("Access-Control-Allow-Headers"), "Authorization"))
	assert.False(t, called, "preflight must not reach the handler")

	req = httptest.NewRequest("GET", "/api/snacks", nil)
	rr = httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, called)
}

func TestLoggingMiddleware(t *testing.T) {
	var seen string
	handler := LoggingMiddleware(zap.NewNop().Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestCSRFMiddlewareRejectsMissingToken(t *testing.T) {
	called := false
	handler := CSRFMiddleware([]byte("01234567890123456789012345678901"), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("POST", "/add_snack", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, called)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/login", nil))
	assert.True(t, called)
}
