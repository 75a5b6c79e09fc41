package serverutils

import (
	"errors"

	"intelidoc-rag-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain error kinds to HTTP statuses so
// controllers can return service errors directly. Unrecognized errors become
// a generic 500 without leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		switch {
		case errors.Is(err, apperror.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(404, err.Error()))
		case errors.Is(err, apperror.ErrConfiguration):
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, err.Error()))
		case errors.Is(err, apperror.ErrDimensionMismatch):
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse(422, err.Error()))
		case errors.Is(err, apperror.ErrExtraction), errors.Is(err, apperror.ErrGeneration):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse(503, err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, "Internal server error"))
		}
	}
}
