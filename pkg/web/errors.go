package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/dukex/newsroom/pkg/services"
)

func problem(c fiber.Ctx, status int, kind, detail string) error {
	p := problems.NewStatusProblem(status).
		WithInstance(c.Path()).
		WithType(kind).
		WithDetail(detail)

	return c.Status(status).JSON(p)
}

func badRequest(c fiber.Ctx, detail string) error {
	return problem(c, fiber.StatusBadRequest, "validation_error", detail)
}

func unauthorized(c fiber.Ctx, detail string) error {
	return problem(c, fiber.StatusUnauthorized, "missing_identity", detail)
}

func forbidden(c fiber.Ctx, detail string) error {
	return problem(c, fiber.StatusForbidden, "forbidden", detail)
}

func internalError(c fiber.Ctx, err error) error {
	p := problems.NewStatusProblem(fiber.StatusInternalServerError).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(p)
}

// handleServiceError maps service error codes to problem responses.
func handleServiceError(c fiber.Ctx, err error) error {
	switch services.ErrorCode(err) {
	case services.CodeNotFound:
		return problem(c, fiber.StatusNotFound, "post_not_found", err.Error())
	case services.CodeConflict:
		return problem(c, fiber.StatusConflict, "invalid_transition", err.Error())
	case services.CodeInvalidDocument:
		return problem(c, fiber.StatusUnprocessableEntity, "invalid_document", err.Error())
	case services.CodeValidation:
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}
