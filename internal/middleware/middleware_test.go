package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dubey-IITB/resume-tracker/internal/model"
	"github.com/Dubey-IITB/resume-tracker/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestApp(tokens *service.TokenService, required bool, limit int) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", JWT(tokens, required), RateLimiter(limit, time.Minute), func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(claims.Subject)
	})
	return app
}

func send(t *testing.T, app *fiber.App, token string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func issue(t *testing.T, tokens *service.TokenService, id uint) string {
	t.Helper()
	token, _, err := tokens.Issue(&model.User{ID: id, Email: "hr@example.com"})
	require.NoError(t, err)
	return token
}

func TestJWTOptionalAndRequired(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)

	resp, body := send(t, newTestApp(tokens, false, 10), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "anonymous", body)

	resp, body = send(t, newTestApp(tokens, true, 10), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing bearer token", gjson.Get(body, "message").String())

	resp, body = send(t, newTestApp(tokens, true, 10), issue(t, tokens, 7))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "7", body)

	resp, body = send(t, newTestApp(tokens, false, 10), "garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid token", gjson.Get(body, "message").String())
}

func TestRateLimiterRejectsWithEnvelope(t *testing.T) {
	app := newTestApp(service.NewTokenService("secret", time.Hour), false, 1)

	resp, _ := send(t, app, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := send(t, app, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get(fiber.HeaderRetryAfter))
	assert.Equal(t, "rate_limited", gjson.Get(body, "error_code").String())
	assert.False(t, gjson.Get(body, "success").Bool())
}

func TestRateLimiterKeysByUser(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	app := newTestApp(tokens, false, 1)
	first, second := issue(t, tokens, 7), issue(t, tokens, 8)

	resp, _ := send(t, app, first)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = send(t, app, first)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, body := send(t, app, second)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "8", body)

	resp, _ = send(t, app, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
