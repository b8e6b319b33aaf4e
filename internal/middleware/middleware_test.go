package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"esi-server/internal/auth"
	"esi-server/internal/shared/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func adminRequest(t *testing.T, role string) *http.Request {
	t.Helper()
	token, err := auth.GenerateJWT(testSecret, "ops", role, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/sync", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(testSecret)(okHandler)

	assert.Equal(t, http.StatusNoContent, serve(h, adminRequest(t, auth.RoleAdmin)).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, adminRequest(t, "viewer")).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, httptest.NewRequest(http.MethodPost, "/api/admin/sync", nil)).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/sync", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, serve(h, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/sync", nil)
	req.Header.Set("Authorization", "Basic b3BzOm9wcw==")
	assert.Equal(t, http.StatusUnauthorized, serve(h, req).Code)
}

func TestRequireAdmin_DisabledWithoutSecret(t *testing.T) {
	h := RequireAdmin("")(okHandler)

	assert.Equal(t, http.StatusServiceUnavailable, serve(h, adminRequest(t, auth.RoleAdmin)).Code)
}

func TestJWTMiddleware_StoresClaims(t *testing.T) {
	var got *auth.Claims
	h := JWTMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetClaimsFromContext(r)
	}))

	serve(h, adminRequest(t, auth.RoleAdmin))

	if assert.NotNil(t, got) {
		assert.Equal(t, "ops", got.Subject)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Stop()
	h := rl.Middleware(okHandler)

	req := func(addr string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/system-data", nil)
		r.RemoteAddr = addr
		return r
	}

	assert.Equal(t, http.StatusNoContent, serve(h, req("10.0.0.1:5000")).Code)
	assert.Equal(t, http.StatusNoContent, serve(h, req("10.0.0.1:5001")).Code)

	rec := serve(h, req("10.0.0.1:5002"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, serve(h, req("10.0.0.2:5000")).Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: false, RequestsPerSecond: 0.001, BurstSize: 1})
	h := rl.Middleware(okHandler)

	for range 5 {
		assert.Equal(t, http.StatusNoContent, serve(h, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestRateLimiter_SweepDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})
	rl.getLimiter("10.0.0.1").Allow()

	rl.sweep(time.Now().Add(time.Hour))

	assert.Empty(t, rl.clients)
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.168.1.1:12345"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "192.168.1.1", getClientIP(r, false))
	assert.Equal(t, "203.0.113.7", getClientIP(r, true))

	r.Header.Del("X-Forwarded-For")
	r.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", getClientIP(r, true))
}

func TestCORS(t *testing.T) {
	h := NewCORS(config.FrontendConfig{URL: "https://map.example.com"}).Middleware(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/system-data", nil)
	req.Header.Set("Origin", "https://map.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := serve(h, req)
	assert.Equal(t, "https://map.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/system-data", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = serve(h, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
