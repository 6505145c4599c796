package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/chynybekuuludastan/conclusion_generator/internal/api"
	"github.com/chynybekuuludastan/conclusion_generator/internal/config"
	"github.com/chynybekuuludastan/conclusion_generator/internal/database"
	"github.com/chynybekuuludastan/conclusion_generator/internal/logger"
	"github.com/chynybekuuludastan/conclusion_generator/internal/repository/cache"
	"github.com/chynybekuuludastan/conclusion_generator/internal/service/conclusion"
	"github.com/chynybekuuludastan/conclusion_generator/internal/service/llm"
	"github.com/chynybekuuludastan/conclusion_generator/internal/service/serp"
)

// @title Conclusion Generator API
// @version 1.0
// @description API for generating article conclusions with Gemini and competitor SERP context

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	if err := run(config.NewConfig()); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}

// run wires the service for cfg and serves until SIGINT or SIGTERM. Deferred
// cleanup runs on every return path.
func run(cfg *config.Config) error {
	zlog := logger.New(cfg.LogLevel)
	serviceLogger := logger.NewAdapter(zlog)

	// Connect to Redis when configured, otherwise cache in memory
	var redisClient *redis.Client
	if cfg.RedisURI != "" {
		rc, err := database.InitRedis(cfg.RedisURI)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer func() {
			if err := rc.Close(); err != nil {
				zlog.Error().Err(err).Msg("Failed to close Redis connection")
			}
		}()
		redisClient = rc.Client
	} else {
		zlog.Info().Msg("REDIS_URI not set, caching snippets in memory")
	}

	if cfg.GeminiAPIKey == "" {
		zlog.Warn().Msg("GEMINI_API_KEY not set, requests must supply gemini_api_key")
	}
	if cfg.SerperAPIKey == "" {
		zlog.Warn().Msg("SERPER_API_KEY not set, competitor snippets are skipped unless requests supply serper_api_key")
	}

	// Initialize services
	searchClient := serp.NewClient(
		serp.WithBaseURL(cfg.SerperURL),
		serp.WithTimeout(cfg.SerperTimeout),
		serp.WithLogger(serviceLogger),
	)
	geminiClient := llm.NewGeminiClient(
		llm.WithModelName(cfg.GeminiModel),
		llm.WithLogger(serviceLogger),
	)
	service := conclusion.NewService(conclusion.ServiceOptions{
		Fetcher:   searchClient,
		Generator: geminiClient,
		Cache:     cache.NewRepository(redisClient, cfg.CacheTTL),
		ModelName: cfg.GeminiModel,
		Logger:    serviceLogger,
	})

	app := newApp(cfg, service)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	zlog.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("Starting server")
	if err := serve(app, ":"+cfg.Port, quit); err != nil {
		return err
	}
	zlog.Info().Msg("Server stopped")
	return nil
}

// newApp builds the Fiber application with middleware, docs and routes
func newApp(cfg *config.Config, service *conclusion.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST",
	}))

	// Setup Swagger
	api.SetupSwagger(app)

	// Setup routes
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	api.SetupRoutes(app, service, limiter)

	return app
}

// serve listens on addr until quit receives a signal, then shuts the app down.
// A listen failure is returned instead of exiting so callers can clean up.
func serve(app *fiber.App, addr string, quit <-chan os.Signal) error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-quit:
	}

	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
