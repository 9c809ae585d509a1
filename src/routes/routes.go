package routes

import (
	"github.com/gofiber/fiber/v2"

	"order-management/src/config"
	"order-management/src/handlers"
	"order-management/src/middleware"
)

func SetupRoutes(app *fiber.App, cfg *config.Config, orderHandler *handlers.OrderHandler) {
	serviceAvailability := middleware.NewServiceAvailability(cfg.MaintenanceMode, cfg.MaxConcurrentRequests)
	app.Use(serviceAvailability.Middleware())
	app.Use(middleware.RequestLogger(cfg.RequestLoggingDisabled))

	if !cfg.RateLimitDisabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
		app.Use(rateLimiter.Middleware())
	}

	app.Post("/orders", orderHandler.AddOrder)
	app.Delete("/orders/:id", orderHandler.RemoveOrder)
	app.Get("/orders/:id", orderHandler.GetOrder)
	app.Get("/price", orderHandler.CalculatePrice)
	app.Post("/trades", orderHandler.PlaceTrade)
	app.Get("/orderbook/:symbol", orderHandler.GetOrderBook)

	app.Get("/health", orderHandler.HealthCheck)
	app.Get("/metrics", orderHandler.Metrics)
}
