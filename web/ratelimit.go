package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/workdeck/workdeck/internal/config"
)

// rateScript counts hits per key inside a fixed window. The EXPIRE is set
// only on the first hit so the window does not slide.
var rateScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// RateLimiter throttles alert subscriptions per client address using Redis.
// A nil limiter allows everything, so deployments without Redis keep working.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	if cfg.RedisAddr == "" {
		return nil
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = 5
	}
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}

	return &RateLimiter{
		rdb:    redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}),
		limit:  limit,
		window: window,
	}
}

// Allow reports whether the key may proceed. Redis failures allow the
// request through; losing rate limiting is better than losing signups.
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	if rl == nil {
		return true
	}

	count, err := rateScript.Run(ctx, rl.rdb, []string{"ratelimit:" + key}, int(rl.window.Seconds())).Int()
	if err != nil {
		logger.Warn("rate limit check failed", slog.String("error", err.Error()))
		return true
	}

	return count <= rl.limit
}

func (rl *RateLimiter) Close() error {
	if rl == nil {
		return nil
	}
	return rl.rdb.Close()
}

// RateLimitMiddleware rejects clients that exceed the subscription limit.
func RateLimitMiddleware(rl *RateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !rl.Allow(r.Context(), host) {
			logger.Warn("rate limit exceeded", slog.String("remote", host))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
