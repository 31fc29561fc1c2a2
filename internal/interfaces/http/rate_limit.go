package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/farm-directory-api/internal/application/dto"
)

// RateLimit a per-IP request budget over a fixed window.
type RateLimit struct {
	Max    int
	Window time.Duration
}

// RateLimiter rejects requests beyond the budget with 429 TOO_MANY_REQUESTS.
// A zero Max disables limiting.
func RateLimiter(rl RateLimit) fiber.Handler {
	if rl.Max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        rl.Max,
		Expiration: rl.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    CodeTooManyRequests,
				Message: "too many requests, try again later",
			})
		},
	})
}
