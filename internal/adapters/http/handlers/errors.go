package handlers

import (
	"errors"

	"forza-loanapp/internal/core/domain"
	"forza-loanapp/internal/core/services"
	"forza-loanapp/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps service/domain errors onto the response envelope.
// The error message is surfaced verbatim; the taxonomy decides the status.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrApplicationNotFound),
		errors.Is(err, services.ErrAccountNotFound):
		return response.NotFound(c, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUserNotAuthorized),
		errors.Is(err, services.ErrSubmitRequiresAuth),
		errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())

	case errors.Is(err, services.ErrAlreadyProcessing):
		return response.Error(c, fiber.StatusConflict, err.Error())

	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNoProductSelected),
		errors.Is(err, domain.ErrApplicantIncomplete),
		errors.Is(err, services.ErrFieldsRequired),
		errors.Is(err, services.ErrJMBGLength),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrPasswordMismatch),
		errors.Is(err, services.ErrInvalidStatus):
		return response.BadRequest(c, err.Error())

	default:
		return response.InternalServerError(c, err.Error())
	}
}
