package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dubey-IITB/resume-tracker/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trippedTransport struct {
	failures int
}

func (t *trippedTransport) Complete(context.Context, string) (string, error) { return "", nil }

func (t *trippedTransport) ResetCircuitBreaker() { t.failures = 0 }

func (t *trippedTransport) GetCircuitBreakerStatus() (int, bool) { return t.failures, t.failures >= 5 }

func newOracleApp(h *OracleHandler) *fiber.App {
	app := fiber.New()
	h.RegisterRoutes(app.Group("/api"), func(c *fiber.Ctx) error { return c.Next() })
	return app
}

func TestOracleStatusAndReset(t *testing.T) {
	transport := &trippedTransport{failures: 5}
	app := newOracleApp(NewOracleHandler(config.ProviderOpenRouter, transport))

	code, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/oracle/status", nil))
	require.Equal(t, fiber.StatusOK, code, body.Raw)
	assert.Equal(t, config.ProviderOpenRouter, body.Get("data.provider").String())
	assert.Equal(t, int64(5), body.Get("data.consecutive_errors").Int())
	assert.True(t, body.Get("data.open").Bool())

	code, _ = do(t, app, httptest.NewRequest(http.MethodPost, "/api/oracle/reset", nil))
	require.Equal(t, fiber.StatusOK, code)
	assert.Zero(t, transport.failures)

	_, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/oracle/status", nil))
	assert.False(t, body.Get("data.open").Bool())
}

func TestOracleResetWithoutBreaker(t *testing.T) {
	app := newOracleApp(NewOracleHandler("scripted", scriptedCompleter(oracleReplies)))

	code, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/oracle/status", nil))
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "scripted", body.Get("data.provider").String())
	assert.False(t, body.Get("data.open").Exists())

	code, _ = do(t, app, httptest.NewRequest(http.MethodPost, "/api/oracle/reset", nil))
	assert.Equal(t, fiber.StatusNotImplemented, code)
}
