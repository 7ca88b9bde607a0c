package handler

import (
	"github.com/Dubey-IITB/resume-tracker/internal/middleware"
	"github.com/Dubey-IITB/resume-tracker/internal/usecase"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RegisterRoutes mounts login and whoami. me always needs a valid token.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, me fiber.Handler) {
	g := router.Group("/auth")
	g.Post("/login", h.Login)
	g.Get("/me", me, h.Me)
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}
	out, err := h.uc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success login",
		Data:    out,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return respondError(c, fiber.NewError(fiber.StatusUnauthorized, "missing token"))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get current user",
		Data:    fiber.Map{"sub": claims.Subject, "email": claims.Email},
	})
}
