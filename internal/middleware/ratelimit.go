package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	rateLimitMax    = 100
	rateLimitWindow = time.Minute
)

type rateWindow struct {
	start time.Time
	count int
}

// RateLimit returns a middleware enforcing a fixed-window per-IP limit of
// 100 requests per minute. State is in-process only and resets on restart.
func RateLimit() gin.HandlerFunc {
	var mu sync.Mutex
	windows := map[string]*rateWindow{}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		now := time.Now()
		mu.Lock()
		w := windows[ip]
		if w == nil || now.Sub(w.start) >= rateLimitWindow {
			w = &rateWindow{start: now}
			windows[ip] = w
			// Sweep stale entries opportunistically on window rollover.
			if len(windows) > 10000 {
				for k, v := range windows {
					if now.Sub(v.start) >= rateLimitWindow {
						delete(windows, k)
					}
				}
			}
		}
		w.count++
		count := w.count
		mu.Unlock()

		if count > rateLimitMax {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":      0,
				"code":    http.StatusTooManyRequests,
				"message": "Sometimes You Just Have to Slow Down.",
			})
			return
		}

		c.Next()
	}
}
