package util

import (
	"fmt"
	"runtime/debug"

	"github.com/Dubey-IITB/resume-tracker/internal/config"
	"github.com/Dubey-IITB/resume-tracker/internal/response"
	"github.com/gofiber/fiber/v2"
)

type SuccessResponseFormat struct {
	Code       int
	Message    string
	Data       any
	Pagination *response.Pagination
	Meta       any
}

type OrderedSuccessResponse struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Meta       any                  `json:"meta,omitempty"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
	Data       any                  `json:"data,omitempty"`
}

type ErrorResponseFormat struct {
	Code int
	// ErrorCode is a stable machine-readable name such as "job_not_found".
	ErrorCode  string
	Message    string
	DevMessage string
	Details    any
	Trace      string
}

type OrderedErrorResponse struct {
	Success    bool   `json:"success"`
	ErrorCode  string `json:"error_code,omitempty"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
	Details    any    `json:"details,omitempty"`
	DevMessage string `json:"dev_message,omitempty"`
	Trace      string `json:"trace,omitempty"`
}

// FormError carries per-field validation messages back to the client.
type FormError struct {
	Errors  map[string]string
	Message string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("form error: %s", e.Message)
}

func NewFormError(message string, errors map[string]string) *FormError {
	return &FormError{
		Message: message,
		Errors:  errors,
	}
}

func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	code := params.Code
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(OrderedSuccessResponse{
		Success:    true,
		Message:    params.Message,
		Data:       params.Data,
		Pagination: params.Pagination,
		Meta:       params.Meta,
	})
}

// ErrorResponse writes the error envelope, tagged with the request id when the
// requestid middleware set one.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, errs ...error) error {
	resp := OrderedErrorResponse{
		Success:   false,
		ErrorCode: params.ErrorCode,
		Message:   params.Message,
		RequestID: c.GetRespHeader(fiber.HeaderXRequestID),
		Details:   params.Details,
	}
	if config.LoadAppConfig().Env != "production" {
		resp.DevMessage, resp.Trace = devDetails(params, errs)
	}

	code := params.Code
	if code == 0 {
		code = fiber.StatusInternalServerError
	}
	return c.Status(code).JSON(resp)
}

// devDetails prefers explicit values over the first error and its stack.
func devDetails(params ErrorResponseFormat, errs []error) (message, trace string) {
	if len(errs) > 0 && errs[0] != nil {
		message = errs[0].Error()
		trace = string(debug.Stack())
	}
	if params.DevMessage != "" {
		message = params.DevMessage
	}
	if params.Trace != "" {
		trace = params.Trace
	}
	return message, trace
}
