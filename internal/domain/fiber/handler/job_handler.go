package handler

import (
	"github.com/Dubey-IITB/resume-tracker/internal/usecase"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	uc *usecase.JobUsecase
}

func NewJobHandler(uc *usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	g := router.Group("/jobs")
	g.Get("/", h.List)
	g.Post("/", guard, h.Create)
	g.Get("/:id", h.Get)
	g.Put("/:id", guard, h.Update)
	g.Delete("/:id", guard, h.Delete)
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	jobs, page, err := h.uc.ListJobs(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("page_size", 10))
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get jobs",
		Data:       jobs,
		Pagination: page,
	})
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	var in usecase.JobInput
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}
	job, err := h.uc.CreateJob(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create job",
		Data:    job,
	})
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	job, err := h.uc.GetJob(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job",
		Data:    job,
	})
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in usecase.JobInput
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}
	job, err := h.uc.UpdateJob(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update job",
		Data:    job,
	})
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.DeleteJob(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success delete job",
	})
}
