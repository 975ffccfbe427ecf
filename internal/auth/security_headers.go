package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultHSTSMaxAge is one year, the minimum accepted by browser preload lists.
const DefaultHSTSMaxAge = 365 * 24 * time.Hour

// apiHeaders are sent on every response. The library API only serves JSON,
// so nothing may be framed, embedded or cached by intermediaries.
var apiHeaders = [][2]string{
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "no-referrer"},
	{"Cache-Control", "no-store"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
	{"Permissions-Policy", strings.Join([]string{
		"camera=()", "geolocation=()", "microphone=()", "payment=()", "usb=()",
	}, ", ")},
}

// SecurityHeadersMiddleware adds the fixed API response headers.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		for _, kv := range apiHeaders {
			h.Set(kv[0], kv[1])
		}
		c.Next()
	}
}

// StrictTransportSecurityMiddleware sets HSTS on requests that arrived over
// TLS, directly or through a proxy reporting X-Forwarded-Proto.
func StrictTransportSecurityMiddleware(maxAge time.Duration) gin.HandlerFunc {
	if maxAge <= 0 {
		maxAge = DefaultHSTSMaxAge
	}
	value := fmt.Sprintf("max-age=%d; includeSubDomains", int64(maxAge.Seconds()))

	return func(c *gin.Context) {
		if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
			c.Header("Strict-Transport-Security", value)
		}
		c.Next()
	}
}
