package serverutils

import (
	"errors"

	"inventory-assistant-be/internal/dto"
	"inventory-assistant-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates classified service errors into HTTP
// responses. Anything unclassified becomes a 500 without leaking internals.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(vErr.Error()))
		}

		var pErr *dto.ProviderError
		if errors.As(err, &pErr) {
			log.Warn("HTTP", "provider call failed", map[string]interface{}{
				"path":  ctx.Path(),
				"error": pErr.Error(),
			})
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(pErr.Error()))
		}

		var nfErr *dto.NotFoundError
		if errors.As(err, &nfErr) {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(nfErr.Error()))
		}

		var fErr *fiber.Error
		if errors.As(err, &fErr) {
			return ctx.Status(fErr.Code).JSON(ErrorResponse(fErr.Message))
		}

		log.Error("HTTP", "unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
