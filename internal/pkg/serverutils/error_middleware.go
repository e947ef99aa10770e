package serverutils

import (
	"errors"

	"canvas-studio-be/pkg/canvas"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors escaping the controllers into JSON
// envelopes. Domain sentinels get their own status codes; anything unknown is
// a 500 with the message withheld.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		if errors.Is(err, canvas.ErrIndexOutOfRange) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(err.Error()))
		}

		var persistErr *canvas.PersistenceError
		if errors.As(err, &persistErr) {
			// Best-effort persistence: the mutation itself succeeded.
			return ctx.Status(fiber.StatusAccepted).JSON(ErrorResponse("State updated, persistence degraded"))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error"))
	}
}
