package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Adnan4141/digital-product-store-server/utils"
)

const (
	rateLimitPeriod = 1 * time.Minute
	rateLimitCount  = 30
)

// RateLimiter applies a fixed-window per-IP limit backed by redis. Without
// a redis client, and whenever redis errors, requests pass through.
func RateLimiter(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := "rate_limit:" + c.ClientIP()
		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			c.Next()
			return
		}

		// First hit in the window starts the expiry clock.
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, rateLimitPeriod)
		}

		if count > rateLimitCount {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.Fail("too many requests"))
			return
		}

		c.Next()
	}
}
