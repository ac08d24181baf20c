package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/inventory-api/internal/config"
)

// RateLimiter counts requests per client in fixed one-minute windows
type RateLimiter interface {
	// Allow records a request for the client and reports whether it fits the window.
	// Returns: allowed bool, remaining int64, retry after, error
	Allow(ctx context.Context, clientKey string) (bool, int64, time.Duration, error)

	// Limit returns the number of requests allowed per window, 0 when unlimited
	Limit() int64

	// Close closes the Redis connection
	Close() error
}

const rateWindow = time.Minute

type redisRateLimiter struct {
	client *redis.Client
	limit  int64
	logger *slog.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new Redis-based rate limiter
func NewRateLimiter(cfg *config.Config, logger *slog.Logger) (RateLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDB),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("❌ [RateLimiter] Failed to connect to Redis", "error", err)
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [RateLimiter] Connected to Redis",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"limit_per_minute", cfg.RateLimitPerMinute,
	)

	return NewRedisRateLimiter(client, cfg.RateLimitPerMinute, logger), nil
}

// NewRedisRateLimiter wraps an existing client
func NewRedisRateLimiter(client *redis.Client, limit int64, logger *slog.Logger) RateLimiter {
	return &redisRateLimiter{
		client: client,
		limit:  limit,
		logger: logger,
		now:    time.Now,
	}
}

// windowKey generates the Redis key for the current window
// Format: rate:ip:{client}:{unix minute}
func windowKey(clientKey string, now time.Time) string {
	return fmt.Sprintf("rate:ip:%s:%d", clientKey, now.Unix()/int64(rateWindow.Seconds()))
}

func (r *redisRateLimiter) Allow(ctx context.Context, clientKey string) (bool, int64, time.Duration, error) {
	if r.limit <= 0 {
		return true, 0, 0, nil
	}

	now := r.now()
	key := windowKey(clientKey, now)
	retryAfter := now.Truncate(rateWindow).Add(rateWindow).Sub(now)

	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rateWindow)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to increment window count", "error", err, "client", clientKey)
		// On error, allow the request but report it
		return true, r.limit, 0, err
	}

	count := incr.Val()
	remaining := r.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= r.limit, remaining, retryAfter, nil
}

func (r *redisRateLimiter) Limit() int64 {
	return r.limit
}

func (r *redisRateLimiter) Close() error {
	return r.client.Close()
}

// NoOpRateLimiter is a rate limiter that always allows requests
// Used when Redis is not available
type NoOpRateLimiter struct {
	logger *slog.Logger
}

// NewNoOpRateLimiter creates a no-op rate limiter
func NewNoOpRateLimiter(logger *slog.Logger) RateLimiter {
	logger.Warn("⚠️ [RateLimiter] Using no-op rate limiter - rate limiting is disabled")
	return &NoOpRateLimiter{logger: logger}
}

func (r *NoOpRateLimiter) Allow(ctx context.Context, clientKey string) (bool, int64, time.Duration, error) {
	return true, 0, 0, nil
}

func (r *NoOpRateLimiter) Limit() int64 {
	return 0
}

func (r *NoOpRateLimiter) Close() error {
	return nil
}

// RateLimit rejects clients that exceed their window with 429
func RateLimit(limiter RateLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := limiter.Limit()
		if limit <= 0 {
			c.Next()
			return
		}

		allowed, remaining, retryAfter, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			seconds := int(retryAfter.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			logger.Warn("⚠️ [RateLimiter] Rate limit exceeded", "client", c.ClientIP(), "path", c.FullPath())
			abort(c, http.StatusTooManyRequests, "Too many requests.")
			return
		}

		c.Next()
	}
}
