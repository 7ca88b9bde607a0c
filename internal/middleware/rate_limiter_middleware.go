package middleware

import (
	"strconv"
	"time"

	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimiter throttles with a sliding window, keyed by the authenticated
// user when a token was presented and by client IP otherwise. Zero values
// fall back to 50 requests per minute.
func RateLimiter(max int, expiration time.Duration) fiber.Handler {
	if max <= 0 {
		max = 50
	}
	if expiration <= 0 {
		expiration = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        expiration,
		KeyGenerator:      limiterKey,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(expiration.Seconds())))
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:      fiber.StatusTooManyRequests,
				ErrorCode: "rate_limited",
				Message:   "Too many requests",
			})
		},
	})
}

func limiterKey(c *fiber.Ctx) string {
	if claims, ok := ClaimsFrom(c); ok && claims.Subject != "" {
		return "user:" + claims.Subject
	}
	return "ip:" + c.IP()
}
