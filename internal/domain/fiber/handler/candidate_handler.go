package handler

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Dubey-IITB/resume-tracker/internal/middleware"
	"github.com/Dubey-IITB/resume-tracker/internal/usecase"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"github.com/gofiber/fiber/v2"
)

type CandidateHandler struct {
	uc *usecase.CandidateUsecase
}

func NewCandidateHandler(uc *usecase.CandidateUsecase) *CandidateHandler {
	return &CandidateHandler{uc: uc}
}

func (h *CandidateHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	g := router.Group("/candidates")
	g.Get("/", h.List)
	g.Post("/upload", guard, middleware.RateLimiter(10, time.Minute), h.Upload)
	g.Post("/process-and-match", guard, middleware.RateLimiter(5, time.Minute), h.ProcessAndMatch)
	g.Post("/rank", middleware.RateLimiter(5, time.Minute), h.Rank)
	g.Post("/extract-email", middleware.RateLimiter(10, time.Minute), h.ExtractEmail)
	g.Get("/:email", h.Get)
}

// Upload stores every resume and reports each one separately.
func (h *CandidateHandler) Upload(c *fiber.Ctx) error {
	uploads, err := readUploads(c, "resumes", true)
	if err != nil {
		return respondError(c, err)
	}
	results := h.uc.ProcessBatch(c.UserContext(), uploads)

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	code := fiber.StatusOK
	if failed == len(results) {
		code = fiber.StatusUnprocessableEntity
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    code,
		Message: "Success process resumes",
		Data:    results,
		Meta:    fiber.Map{"processed": len(results) - failed, "failed": failed},
	})
}

func (h *CandidateHandler) ProcessAndMatch(c *fiber.Ctx) error {
	uploads, err := readUploads(c, "resumes", true)
	if err != nil {
		return respondError(c, err)
	}
	budget, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("budget")), 64)
	if err != nil {
		return respondError(c, util.NewFormError("invalid budget", map[string]string{"budget": "budget must be a number"}))
	}

	out, err := h.uc.ProcessAndMatch(c.UserContext(), c.FormValue("job_description"), budget, uploads)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success process and match",
		Data:    out,
	})
}

// Rank asks the oracle to compare the resumes against a description without
// storing them.
func (h *CandidateHandler) Rank(c *fiber.Ctx) error {
	uploads, err := readUploads(c, "resumes", false)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AnalyzeResumes(c.UserContext(), c.FormValue("job_description"), uploads)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success rank resumes",
		Data:    out,
	})
}

// ExtractEmail shows how a single resume would be identified without storing it.
func (h *CandidateHandler) ExtractEmail(c *fiber.Ctx) error {
	uploads, err := readUploads(c, "resume", false)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success extract email",
		Data:    h.uc.ExtractIdentity(c.UserContext(), uploads[0]),
	})
}

func (h *CandidateHandler) List(c *fiber.Ctx) error {
	rows, page, err := h.uc.ListCandidates(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("page_size", 10))
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get candidates",
		Data:       rows,
		Pagination: page,
	})
}

func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest, "invalid email"))
	}
	candidate, err := h.uc.GetCandidate(c.UserContext(), email)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get candidate",
		Data:    candidate,
	})
}
