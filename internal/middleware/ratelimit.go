package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fernbank/ledger-service/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit gates every request through the token-bucket limiter before
// any other processing. Each gated response carries remaining-token and
// reset-time headers; a rejection adds Retry-After.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerID(c)
		probe := limiter.Allow(caller, c.Request.URL.Path)

		c.Header("X-Rate-Limit-Remaining", strconv.Itoa(probe.Remaining))
		c.Header("X-Rate-Limit-Reset", strconv.FormatInt(ceilSeconds(probe.Reset), 10))

		if !probe.Allowed {
			c.Header("Retry-After", strconv.FormatInt(ceilSeconds(probe.RetryAfter), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// CallerID resolves the identity used as the rate-limit key. First
// match wins: explicit API key, authenticated principal, forwarded
// client address, direct peer address. Admission runs before the auth
// middleware, so the principal is resolved from the bearer token
// directly when the context has none yet.
func CallerID(c *gin.Context) string {
	if apiKey := strings.TrimSpace(c.GetHeader("X-API-Key")); apiKey != "" {
		return "key:" + apiKey
	}
	if userID, ok := GetUserID(c); ok {
		return "usr:" + userID
	}
	if userID, ok := PrincipalFromRequest(c.Request); ok {
		return "usr:" + userID
	}
	return "ip:" + clientIP(c.Request)
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + time.Second - 1) / time.Second)
}
