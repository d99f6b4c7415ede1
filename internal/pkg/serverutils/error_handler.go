package serverutils

import (
	"errors"

	"hipaai-chat-be/internal/apperror"
	"hipaai-chat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const genericErrorMessage = "An internal server error occurred processing the API request."

// ErrorHandlerMiddleware is the single place where error kinds become HTTP
// status codes and the error envelope. Validation and ownership failures pass
// their caller-safe message through; everything unexpected is logged in full
// under a reference id and replaced with a generic message.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		appErr := apperror.From(err)
		status := statusFor(appErr)
		message := appErr.Message

		switch appErr.Kind {
		case apperror.KindPersistence, apperror.KindInternal:
			ref := uuid.NewString()
			log.Error("chat-api", "request failed", map[string]interface{}{
				"ref":    ref,
				"kind":   appErr.Kind.String(),
				"path":   ctx.Path(),
				"action": ctx.Query("action"),
				"error":  appErr.Error(),
			})
			message = genericErrorMessage
		case apperror.KindUpstreamFailure, apperror.KindUpstreamTimeout:
			log.Error("chat-api", "upstream call failed", map[string]interface{}{
				"kind":            appErr.Kind.String(),
				"upstream_status": appErr.UpstreamStatus,
				"action":          ctx.Query("action"),
				"error":           appErr.Error(),
			})
		}

		return ctx.Status(status).JSON(ErrorResponse(message))
	}
}

func statusFor(err *apperror.Error) int {
	switch err.Kind {
	case apperror.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperror.KindBadRequest:
		return fiber.StatusBadRequest
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindMethodNotAllowed:
		return fiber.StatusMethodNotAllowed
	case apperror.KindUpstreamTimeout:
		return fiber.StatusGatewayTimeout
	case apperror.KindUpstreamFailure:
		// Client-error classes from upstream pass through untouched; anything
		// else (transport failure, 5xx, malformed body) is a bad gateway.
		if err.UpstreamStatus >= 400 && err.UpstreamStatus < 500 {
			return err.UpstreamStatus
		}
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
