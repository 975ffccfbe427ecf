package auth

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *time.Time) {
	t.Helper()
	rl := NewRateLimiter(RateLimitConfig{Limit: limit, WindowDuration: window, CleanupInterval: time.Hour})
	t.Cleanup(rl.Stop)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	rl, now := newTestLimiter(t, 5, time.Minute)

	for i := 0; i < 5; i++ {
		allowed, _ := rl.Allow("10.0.0.1")
		require.True(t, allowed, "attempt %d should be allowed", i+1)
		*now = now.Add(time.Second)
	}

	allowed, retryAfter := rl.Allow("10.0.0.1")
	assert.False(t, allowed, "sixth attempt inside the window must be refused")
	assert.Equal(t, 55*time.Second, retryAfter)

	// The window opened at the first request, not the last.
	*now = now.Add(55 * time.Second)
	allowed, _ = rl.Allow("10.0.0.1")
	assert.True(t, allowed, "a new window opens once the old one has elapsed")
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Minute)

	rl.Allow("a")
	rl.Allow("a")
	allowed, _ := rl.Allow("a")
	assert.False(t, allowed)

	allowed, _ = rl.Allow("b")
	assert.True(t, allowed)
}

func TestRateLimiter_Reset(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)

	rl.Allow("a")
	allowed, _ := rl.Allow("a")
	require.False(t, allowed)

	rl.Reset("a")
	allowed, _ = rl.Allow("a")
	assert.True(t, allowed)
}

func TestRateLimiter_CleanupDropsClosedWindows(t *testing.T) {
	rl, now := newTestLimiter(t, 5, time.Minute)

	rl.Allow("a")
	*now = now.Add(30 * time.Second)
	rl.Allow("b")
	*now = now.Add(45 * time.Second)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.windows, "a")
	assert.Contains(t, rl.windows, "b")
}

func TestRateLimiter_ConcurrentAllow(t *testing.T) {
	rl, _ := newTestLimiter(t, 5, time.Minute)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := rl.Allow("shared"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, allowed)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimitConfig())
	rl.Stop()
	rl.Stop()
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{})
	defer rl.Stop()

	assert.Equal(t, 5, rl.limit)
	assert.Equal(t, time.Minute, rl.windowDuration)
	assert.Equal(t, 5*time.Minute, rl.cleanupInterval)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Minute)

	router := gin.New()
	router.Use(rl.RateLimitMiddleware())
	router.POST("/sign-in", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/sign-in", func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/sign-in", nil)
		req.RemoteAddr = "192.0.2.10:4000"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, post().Code)
	assert.Equal(t, http.StatusOK, post().Code)

	rr := post()
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), `"retry_after":60`)

	// Reads are never limited.
	req := httptest.NewRequest(http.MethodGet, "/sign-in", nil)
	req.RemoteAddr = "192.0.2.10:4000"
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, req)
	assert.Equal(t, http.StatusOK, getRR.Code)
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	expected := map[string]string{
		"X-Frame-Options":              "DENY",
		"X-Content-Type-Options":       "nosniff",
		"Referrer-Policy":              "no-referrer",
		"Cache-Control":                "no-store",
		"Content-Security-Policy":      "default-src 'none'; frame-ancestors 'none'",
		"Cross-Origin-Opener-Policy":   "same-origin",
		"Cross-Origin-Resource-Policy": "same-origin",
	}
	for header, value := range expected {
		assert.Equal(t, value, rr.Header().Get(header), header)
	}
	assert.Contains(t, rr.Header().Get("Permissions-Policy"), "camera=()")
}

func TestHSTSHeader(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware(0))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("plain http", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	})

	t.Run("behind https proxy", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, "max-age=31536000; includeSubDomains", rr.Header().Get("Strict-Transport-Security"))
	})

	t.Run("custom max age", func(t *testing.T) {
		short := gin.New()
		short.Use(StrictTransportSecurityMiddleware(time.Hour))
		short.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-Proto", "HTTPS")
		rr := httptest.NewRecorder()
		short.ServeHTTP(rr, req)
		assert.Equal(t, "max-age=3600; includeSubDomains", rr.Header().Get("Strict-Transport-Security"))
	})
}
