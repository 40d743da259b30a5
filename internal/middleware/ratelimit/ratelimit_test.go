package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func TestAllowRefill(t *testing.T) {
	rl := New(Config{
		MaxRequestsPerMinute: 2,
		WindowDuration:       60 * time.Millisecond,
		Logger:               zap.NewNop(),
	})
	t.Cleanup(rl.Stop)

	if !rl.allow("client") || !rl.allow("client") {
		t.Fatalf("first two requests should pass")
	}
	if rl.allow("client") {
		t.Fatalf("third request should be rejected")
	}

	time.Sleep(100 * time.Millisecond)
	if !rl.allow("client") {
		t.Errorf("request after refill interval should pass")
	}
}

func TestAllowIsolatesKeys(t *testing.T) {
	rl := New(Config{
		MaxRequestsPerMinute: 1,
		WindowDuration:       time.Minute,
		Logger:               zap.NewNop(),
	})
	t.Cleanup(rl.Stop)

	if !rl.allow("a") {
		t.Fatalf("first request for key a should pass")
	}
	if rl.allow("a") {
		t.Fatalf("second request for key a should be rejected")
	}
	if !rl.allow("b") {
		t.Errorf("key b should have its own bucket")
	}
}

func TestMiddleware(t *testing.T) {
	rl := New(Config{
		MaxRequestsPerMinute: 2,
		WindowDuration:       time.Minute,
		Logger:               zap.NewNop(),
	})
	t.Cleanup(rl.Stop)

	app := fiber.New()
	app.Use(rl.Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d status = %d", i, resp.StatusCode)
		}
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	if err != nil {
		t.Fatalf("limited request: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", resp.StatusCode)
	}
}
