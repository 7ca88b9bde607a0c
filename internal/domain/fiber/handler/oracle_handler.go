package handler

import (
	"github.com/Dubey-IITB/resume-tracker/internal/service"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"github.com/gofiber/fiber/v2"
)

// OracleHandler reports on the completion transport behind the oracle.
type OracleHandler struct {
	provider  string
	transport service.Completer
}

func NewOracleHandler(provider string, transport service.Completer) *OracleHandler {
	return &OracleHandler{provider: provider, transport: transport}
}

func (h *OracleHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	g := router.Group("/oracle")
	g.Get("/status", h.Status)
	g.Post("/reset", guard, h.Reset)
}

func (h *OracleHandler) Status(c *fiber.Ctx) error {
	data := fiber.Map{"provider": h.provider}
	if br, ok := h.transport.(service.BreakerReporter); ok {
		n, open := br.GetCircuitBreakerStatus()
		data["consecutive_errors"] = n
		data["open"] = open
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get oracle status",
		Data:    data,
	})
}

// Reset closes the circuit breaker so the next call reaches the backend.
func (h *OracleHandler) Reset(c *fiber.Ctx) error {
	br, ok := h.transport.(service.BreakerReporter)
	if !ok {
		return respondError(c, fiber.NewError(fiber.StatusNotImplemented, "transport has no circuit breaker"))
	}
	br.ResetCircuitBreaker()
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success reset circuit breaker",
		Data:    fiber.Map{"provider": h.provider},
	})
}
