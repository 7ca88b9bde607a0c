package handler

import (
	"context"
	"errors"

	"github.com/Dubey-IITB/resume-tracker/internal/usecase"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"github.com/gofiber/fiber/v2"
)

// respondError is the single place where usecase errors become status codes.
func respondError(c *fiber.Ctx, err error) error {
	var formErr *util.FormError
	if errors.As(err, &formErr) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:      fiber.StatusBadRequest,
			ErrorCode: "validation_failed",
			Message:   formErr.Message,
			Details:   formErr.Errors,
		}, err)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiberErr.Code, Message: fiberErr.Message}, err)
	}

	code, name := statusFor(err)
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	var details any
	var rankErr *usecase.RankingError
	var batchErr *usecase.BatchRejectedError
	switch {
	case errors.As(err, &rankErr):
		details = fiber.Map{"job_id": rankErr.JobID, "stage": rankErr.Stage}
	case errors.As(err, &batchErr):
		details = batchErr.Results
	}
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:      code,
		ErrorCode: name,
		Message:   message,
		Details:   details,
	}, err)
}

// statusFor maps an error to its HTTP status and error_code name.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrJobNotFound):
		return fiber.StatusNotFound, "job_not_found"
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return fiber.StatusNotFound, "candidate_not_found"
	case errors.Is(err, usecase.ErrMatchNotFound):
		return fiber.StatusNotFound, "match_not_found"
	case errors.Is(err, usecase.ErrNoCandidates):
		return fiber.StatusUnprocessableEntity, "no_candidates"
	case errors.Is(err, usecase.ErrIdentityResolution):
		return fiber.StatusUnprocessableEntity, "identity_unresolved"
	case errors.Is(err, usecase.ErrBatchRejected):
		return fiber.StatusUnprocessableEntity, "batch_rejected"
	case errors.Is(err, usecase.ErrAnalysisUnavailable):
		return fiber.StatusBadGateway, "analysis_unavailable"
	case errors.Is(err, usecase.ErrInvalidStatus):
		return fiber.StatusBadRequest, "invalid_status"
	case errors.Is(err, usecase.ErrInvalidInput):
		return fiber.StatusBadRequest, "invalid_input"
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, usecase.ErrInactiveUser):
		return fiber.StatusForbidden, "inactive_user"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "deadline_exceeded"
	}
	return fiber.StatusInternalServerError, "internal"
}
