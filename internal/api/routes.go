package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/chynybekuuludastan/conclusion_generator/internal/api/handlers"
	"github.com/chynybekuuludastan/conclusion_generator/internal/api/middleware"
	"github.com/chynybekuuludastan/conclusion_generator/internal/service/conclusion"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, service *conclusion.Service, limiter *rate.Limiter) {
	// Initialize handlers
	conclusionHandler := handlers.NewConclusionHandler(service)

	app.Use(middleware.Metrics())

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API group
	api := app.Group("/api")

	// Health check route
	api.Get("/health", healthCheck)

	// Conclusion routes
	api.Post("/snippets", middleware.Throttle(limiter), conclusionHandler.GetSnippets)
	api.Post("/conclusions", middleware.Throttle(limiter), conclusionHandler.GenerateConclusions)
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} api.HealthResponse
// @Router /health [get]
func healthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok"})
}
