package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware throttles one endpoint category. Authenticated
// requests are budgeted per user, anonymous ones per client IP. A
// limiter outage never blocks traffic.
func RateLimitMiddleware(limiter ratelimit.Limiter, category string) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := clientIdentity(c)

		allowed, resetTime, err := limiter.Allow(clientID, category)
		if err != nil {
			c.Header("X-RateLimit-Error", "rate limiter unavailable")
			c.Next()
			return
		}

		limit := limiter.Limit(category)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Window", strconv.Itoa(int(limit.Window.Seconds())))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(resetTime.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": fmt.Sprintf("Too many requests. Try again in %v", resetTime.Round(time.Second)),
				"error":   "rate_limit_exceeded",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func clientIdentity(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if uid, ok := userID.(string); ok && uid != "" {
			return "user:" + uid
		}
	}
	return "ip:" + c.ClientIP()
}
