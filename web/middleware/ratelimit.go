package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/resalelab/carprice/logger"
	"github.com/resalelab/carprice/util/metrics"
)

// Limiter counts hits per key in a fixed window.
type Limiter interface {
	// Hit records one request for key and returns the count in the current
	// window.
	Hit(ctx context.Context, key string) (int64, error)
	Window() time.Duration
}

// MemoryLimiter keeps counters in process memory.
type MemoryLimiter struct {
	mu     sync.Mutex
	window time.Duration
	counts *cache.Cache
}

func NewMemoryLimiter(window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		window: window,
		counts: cache.New(window, 2*window),
	}
}

func (l *MemoryLimiter) Hit(_ context.Context, key string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.counts.Add(key, int64(1), l.window); err == nil {
		return 1, nil
	}
	return l.counts.IncrementInt64(key, 1)
}

func (l *MemoryLimiter) Window() time.Duration {
	return l.window
}

// RedisLimiter shares counters between instances through Redis.
type RedisLimiter struct {
	client redis.UniversalClient
	window time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, window: window}
}

func (l *RedisLimiter) Hit(ctx context.Context, key string) (int64, error) {
	redisKey := "carprice:ratelimit:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (l *RedisLimiter) Window() time.Duration {
	return l.window
}

// RateLimitMiddleware allows limit requests per client IP and route in each
// window of the limiter. Limiter errors let the request through.
func RateLimitMiddleware(limiter Limiter, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		route := c.FullPath()
		key := fmt.Sprintf("%s:%s:%s", c.Request.Method, route, c.ClientIP())

		count, err := limiter.Hit(c.Request.Context(), key)
		if err != nil {
			logger.Warning("rate limit counter failed: ", err)
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			logger.Warningf("rate limit exceeded for %s on %s (count: %d)", c.ClientIP(), route, count)
			metrics.RateLimitHits.WithLabelValues(route).Inc()
			c.Header("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
			c.String(http.StatusTooManyRequests, "Too many attempts. Please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}
