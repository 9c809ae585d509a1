package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("Request over the limit should be rejected")
	}

	// A different client has its own window.
	if !rl.Allow("10.0.0.2") {
		t.Error("Different client should be allowed")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	app := fiber.New()
	rl := NewRateLimiter(2, time.Minute)
	app.Use(rl.Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Request %d: expected 200, got: %d", i+1, resp.StatusCode)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected 429 over the limit, got: %d", resp.StatusCode)
	}
}

func TestServiceAvailabilityMaintenanceMode(t *testing.T) {
	app := fiber.New()
	sa := NewServiceAvailability(true, 0)
	app.Use(sa.Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 in maintenance mode, got: %d", resp.StatusCode)
	}

	// Health stays reachable during maintenance.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 for health, got: %d", resp.StatusCode)
	}

	sa.SetMaintenanceMode(false)
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 after leaving maintenance, got: %d", resp.StatusCode)
	}
}
