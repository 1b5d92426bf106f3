package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// counterStore is the subset of the Redis client used by RateLimiter.
type counterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RateLimiter is a fixed-window request limiter keyed by client address and
// backed by Redis counters. Redis failures let requests through.
type RateLimiter struct {
	redis     counterStore
	limit     int
	window    time.Duration
	keyPrefix string
	logger    *slog.Logger
}

// NewRateLimiter allows limit requests per window per client.
func NewRateLimiter(client counterStore, limit int, window time.Duration, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		redis:     client,
		limit:     limit,
		window:    window,
		keyPrefix: "riskd:rl:",
		logger:    logger,
	}
}

// clientKey identifies the caller: the first X-Forwarded-For hop, else the
// remote host.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "anonymous"
	}
	return host
}

// Middleware enforces the limit on every route except GET /healthz.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := l.keyPrefix + clientKey(r)

		count, err := l.redis.Incr(ctx, key).Result()
		if err != nil {
			l.logger.Warn("rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
				l.logger.Warn("rate limiter expire failed", "key", key, "error", err)
			}
		}

		reset := 0
		if ttl, err := l.redis.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			reset = int(ttl.Seconds())
		}

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		h.Set("X-RateLimit-Reset", strconv.Itoa(reset))

		if count > int64(l.limit) {
			h.Set("X-RateLimit-Remaining", "0")
			h.Set("Retry-After", strconv.Itoa(reset))
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":             "rate limit exceeded",
				"rate_limit":        l.limit,
				"rate_limit_window": l.window.String(),
				"retry_after_sec":   reset,
			})
			return
		}

		h.Set("X-RateLimit-Remaining", strconv.Itoa(l.limit-int(count)))
		next.ServeHTTP(w, r)
	})
}
