package middleware

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// Throttle rejects requests with 429 once limiter has no tokens left.
// A nil limiter disables throttling.
func Throttle(limiter *rate.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil || limiter.Allow() {
			return c.Next()
		}

		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success": false,
			"error":   "Too many requests, please slow down",
			"code":    "throttled",
		})
	}
}
