package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/farm-directory-api/internal/application/dto"
	"github.com/jhoicas/farm-directory-api/internal/domain"
)

// Error codes returned in dto.ErrorResponse.Code.
const (
	CodeInvalidBody        = "INVALID_BODY"
	CodeValidation         = "VALIDATION"
	CodeRegistrationFailed = "REGISTRATION_FAILED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeMissingToken       = "MISSING_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeForbidden          = "FORBIDDEN"
	CodePendingApproval    = "PENDING_APPROVAL"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeConflict           = "CONFLICT"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeInternal           = "INTERNAL"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Checked in order; the first match wins. An empty message echoes the error text.
var errorTable = []errorMapping{
	{domain.ErrWeakPassword, fiber.StatusBadRequest, CodeValidation, ""},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, CodeValidation, ""},
	{domain.ErrRegistrationFailed, fiber.StatusBadRequest, CodeRegistrationFailed, "registration failed"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password"},
	{domain.ErrMissingToken, fiber.StatusUnauthorized, CodeMissingToken, "authentication required"},
	{domain.ErrTokenExpired, fiber.StatusUnauthorized, CodeInvalidToken, "session expired"},
	{domain.ErrInvalidToken, fiber.StatusUnauthorized, CodeInvalidToken, "invalid session"},
	{domain.ErrPendingApproval, fiber.StatusForbidden, CodePendingApproval, "account pending approval"},
	{domain.ErrForbidden, fiber.StatusForbidden, CodeForbidden, "access denied"},
	{domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound, "not found"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, CodeInvalidTransition, ""},
	{domain.ErrConflict, fiber.StatusConflict, CodeConflict, "resource was modified concurrently, retry"},
}

// classify maps err to an HTTP status and error body. Unknown errors become a
// generic 500 and the cause is not exposed.
func classify(err error) (int, dto.ErrorResponse) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return m.status, dto.ErrorResponse{Code: m.code, Message: msg}
		}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: CodeInternal, Message: "internal server error"}
}

// writeError writes the error response for err, logging server-side failures.
func writeError(c *fiber.Ctx, err error) error {
	status, body := classify(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler is the fiber.Config ErrorHandler. Fiber's own errors (404 for
// unknown routes, 405, body limits) keep their status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusTooManyRequests:
			code = CodeTooManyRequests
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		default:
			if fe.Code < fiber.StatusInternalServerError {
				code = CodeInvalidBody
			}
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "invalid request body"})
}
