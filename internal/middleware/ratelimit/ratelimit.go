package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Counter is the subset of redis commands the limiter needs. Satisfied by
// *redis.Client.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimiter enforces a fixed-window request limit per caller, counted in
// Redis so the limit holds across instances. Authenticated callers are keyed
// by user id, anonymous ones by IP.
type RateLimiter struct {
	client Counter
	limit  int
	window time.Duration
	logger *zap.Logger
}

type Config struct {
	MaxRequestsPerMinute int
	WindowDuration       time.Duration
	Logger               *zap.Logger
}

type keyFunc func(c *fiber.Ctx) string

func New(client Counter, cfg Config) *RateLimiter {
	if cfg.MaxRequestsPerMinute == 0 {
		cfg.MaxRequestsPerMinute = 60
	}
	if cfg.WindowDuration == 0 {
		cfg.WindowDuration = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &RateLimiter{
		client: client,
		limit:  cfg.MaxRequestsPerMinute,
		window: cfg.WindowDuration,
		logger: cfg.Logger,
	}
}

func (rl *RateLimiter) Middleware(identity keyFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if identity != nil {
			if id := identity(c); id != "" {
				key = id
			}
		}

		allowed, err := rl.allow(c, key)
		if err != nil {
			// Redis being down should not take requests with it.
			rl.logger.Warn("Rate limit check failed, allowing request", zap.Error(err))
			return c.Next()
		}
		if !allowed {
			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("ip", c.IP()),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}
		return c.Next()
	}
}

func (rl *RateLimiter) allow(c *fiber.Ctx, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(rl.window.Seconds()))

	count, err := rl.client.Incr(c.Context(), redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		rl.client.Expire(c.Context(), redisKey, rl.window)
	}
	return count <= int64(rl.limit), nil
}
