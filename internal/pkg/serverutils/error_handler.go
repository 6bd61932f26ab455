package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"ai-studymate-be/internal/pkg/logger"
	"ai-studymate-be/pkg/apperror"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into a JSON
// APIResponse. Classified errors keep their user-facing message and map to a
// status by kind; anything else becomes a generic 500 so internal detail never
// leaks to the client.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := apperror.As(err); ok {
			log.Warn("HTTP", "request failed", map[string]interface{}{
				"path":   ctx.Path(),
				"kind":   string(appErr.Kind),
				"detail": appErr.DetailString(),
			})
			return ctx.Status(statusForKind(appErr.Kind)).JSON(ErrorResponse(appErr.Message))
		}

		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		log.Error("HTTP", "unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}

func statusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindInputValidation:
		return fiber.StatusBadRequest
	case apperror.KindExtraction:
		return fiber.StatusUnprocessableEntity
	case apperror.KindStoreCreation, apperror.KindStoreValidation, apperror.KindGeneration:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
