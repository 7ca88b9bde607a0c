package middleware

import (
	"errors"
	"strings"

	"github.com/Dubey-IITB/resume-tracker/internal/service"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"github.com/gofiber/fiber/v2"
)

const claimsKey = "auth_claims"

type tokenParser interface {
	Parse(token string) (service.Claims, error)
}

// JWT validates a bearer token and stores its claims on the request. When
// required is false requests without a token pass through untouched.
func JWT(tokens tokenParser, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			if !required {
				return c.Next()
			}
			return unauthorized(c, "missing bearer token")
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return unauthorized(c, "malformed authorization header")
		}
		claims, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, service.ErrTokenExpired) {
				msg = "token expired"
			}
			return unauthorized(c, msg)
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

func ClaimsFrom(c *fiber.Ctx) (service.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(service.Claims)
	return claims, ok
}

func unauthorized(c *fiber.Ctx, message string) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    fiber.StatusUnauthorized,
		Message: message,
	})
}
