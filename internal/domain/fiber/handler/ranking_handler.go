package handler

import (
	"net/url"
	"time"

	"github.com/Dubey-IITB/resume-tracker/internal/middleware"
	"github.com/Dubey-IITB/resume-tracker/internal/usecase"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"github.com/gofiber/fiber/v2"
)

type RankingHandler struct {
	uc *usecase.RankingUsecase
}

func NewRankingHandler(uc *usecase.RankingUsecase) *RankingHandler {
	return &RankingHandler{uc: uc}
}

func (h *RankingHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	g := router.Group("/jobs/:id")
	g.Post("/rank", guard, middleware.RateLimiter(5, time.Minute), h.Rank)
	g.Get("/ranking", h.Ranking)
	g.Patch("/matches/:email/status", guard, h.UpdateStatus)
}

// Rank re-scores the whole candidate pool against the job.
func (h *RankingHandler) Rank(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ranking, err := h.uc.RankJob(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success rank candidates",
		Data:    ranking,
	})
}

func (h *RankingHandler) Ranking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ranking, err := h.uc.GetRanking(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get ranking",
		Data:    ranking,
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *RankingHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest, "invalid email"))
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}
	if err := h.uc.UpdateMatchStatus(c.UserContext(), id, email, req.Status); err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update match status",
		Data:    fiber.Map{"job_id": id, "candidate_email": email, "status": req.Status},
	})
}
