package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type windowCounter struct {
	start time.Time
	count int
}

// memoryLimiter is a per-process fixed-window counter used when Redis is absent.
type memoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*windowCounter
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{windows: make(map[string]*windowCounter)}
}

// hit counts one request for key and returns the count in the current window.
func (l *memoryLimiter) hit(key string, window time.Duration, now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	wc, ok := l.windows[key]
	if !ok || now.Sub(wc.start) > window {
		l.windows[key] = &windowCounter{start: now, count: 1}
		return 1
	}
	wc.count++
	return wc.count
}

var localLimiter = newMemoryLimiter()

// SimpleRateLimit blocks clients that send more than maxRequests per window,
// keyed by client IP and counted in process memory.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		if localLimiter.hit(key, window, time.Now()) > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited", "message": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
