package ratelimit

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexustrace/backend/internal/auth"
	"github.com/nexustrace/backend/internal/domain"
)

type fakeCounter struct {
	counts map[string]int64
	keys   []string
	err    error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: make(map[string]int64)}
}

func (f *fakeCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.keys = append(f.keys, key)
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func okHandler(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

func TestMiddlewareKeysByAuthenticatedUser(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(domain.User{ID: "user-42", Username: "alice"})
	require.NoError(t, err)

	counter := newFakeCounter()
	rl := New(counter, Config{MaxRequestsPerMinute: 10})

	// Same chain order as the protected route group: auth first, then the
	// limiter keyed by the authenticated user.
	app := fiber.New()
	app.Get("/r", auth.Middleware(issuer), rl.Middleware(auth.UserID), okHandler)

	req := httptest.NewRequest("GET", "/r", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, counter.keys, 1)
	assert.True(t, strings.HasPrefix(counter.keys[0], "ratelimit:user-42:"), "key %q", counter.keys[0])
}

func TestMiddlewareFallsBackToIP(t *testing.T) {
	counter := newFakeCounter()
	rl := New(counter, Config{MaxRequestsPerMinute: 10})

	app := fiber.New()
	app.Get("/r", rl.Middleware(nil), okHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/r", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, counter.keys, 1)
	assert.True(t, strings.HasPrefix(counter.keys[0], "ratelimit:0.0.0.0:"), "key %q", counter.keys[0])
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	counter := newFakeCounter()
	rl := New(counter, Config{MaxRequestsPerMinute: 2})

	app := fiber.New()
	app.Get("/r", rl.Middleware(nil), okHandler)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/r", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/r", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestMiddlewareFailsOpenOnRedisError(t *testing.T) {
	counter := newFakeCounter()
	counter.err = errors.New("connection refused")
	rl := New(counter, Config{MaxRequestsPerMinute: 1})

	app := fiber.New()
	app.Get("/r", rl.Middleware(nil), okHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/r", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
