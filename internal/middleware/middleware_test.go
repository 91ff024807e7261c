package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/observability"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mark("a"), mark("b"), mark("c"))(ok())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = observability.GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "abc-123", seen)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", strings.Repeat("x", maxRequestIDLen+1))
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.NotEqual(t, strings.Repeat("x", maxRequestIDLen+1), seen)
}

func TestRecovery(t *testing.T) {
	h := Recovery(discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestCORS(t *testing.T) {
	cfg := config.SecurityConfig{AllowedOrigins: []string{"http://allowed.test"}}
	h := CORS(cfg)(ok())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "http://allowed.test")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "http://allowed.test", w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "http://other.test")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecurityHeaders()(ok()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-src 'self'")
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(config.SecurityConfig{
		EnableRateLimit: true,
		RateLimitRPS:    1,
		RateLimitBurst:  2,
	})
	h := RateLimit(limiter, discard)(ok())

	codes := make([]int, 0, 3)
	for range 3 {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(config.SecurityConfig{RateLimitRPS: 1, RateLimitBurst: 1})
	for range 10 {
		assert.True(t, limiter.Allow("10.0.0.1"))
	}
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(config.SecurityConfig{EnableRateLimit: true, RateLimitRPS: 1, RateLimitBurst: 1})
	limiter.now = func() time.Time { return now }

	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.2")
	assert.Len(t, limiter.visitors, 2)

	now = now.Add(2 * visitorTTL)
	limiter.Allow("10.0.0.3")
	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "10.0.0.3")
}

func TestTrustedProxy(t *testing.T) {
	cfg := config.SecurityConfig{TrustedProxies: []string{"127.0.0.1"}}
	var ip string
	h := TrustedProxy(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = getClientIP(r)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "127.0.0.1:5000"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 127.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "203.0.113.9", ip)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.7:5000"
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "198.51.100.7", ip)
}

func TestTracing_PreservesStatus(t *testing.T) {
	h := Tracing(discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
