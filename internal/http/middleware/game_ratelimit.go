package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GameRateLimit limits game actions per account (not per IP). Requires JWT
// to run first. Uses Redis when configured, process memory otherwise.
func GameRateLimit(maxActions int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := Account(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "account required"})
			return
		}

		key := "game_rl:" + account + ":" + strconv.FormatInt(int64(window.Seconds()), 10)

		var val int64
		if redisClient != nil {
			ctx := c.Request.Context()
			n, err := redisClient.Incr(ctx, key).Result()
			if err != nil {
				c.Header("X-GameRateLimit-Error", "redis-error")
				c.Next()
				return
			}
			if n == 1 {
				redisClient.Expire(ctx, key, window)
			}
			val = n
		} else {
			val = int64(localLimiter.hit(key, window, time.Now()))
		}

		c.Header("X-GameRateLimit-Limit", strconv.Itoa(maxActions))
		c.Header("X-GameRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxActions)-val), 10))

		if val > int64(maxActions) {
			RLBlocked.WithLabelValues("game:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate_limited",
				"message":     "game rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("game:" + c.FullPath()).Inc()
		c.Next()
	}
}
