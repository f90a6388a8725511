package middleware

import (
	"errors"
	"interview-coach/internal/domain"
	"interview-coach/internal/dto"
	"interview-coach/internal/logger"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the app-wide fallback for errors handlers did not render
// themselves: unknown routes, recovered panics and stray domain errors.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get().With(zap.String("request_id", RequestID(c)))

		// Handle domain errors
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := StatusForError(domainErr)
			log.Error("Domain error occurred",
				zap.String("code", string(domainErr.Code)),
				zap.String("path", c.Path()),
				zap.Int("status", statusCode),
				zap.Error(err),
			)
			return c.Status(statusCode).JSON(dto.ErrorResponse{Error: err.Error()})
		}

		// Handle fiber errors
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("path", c.Path()),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{Error: fiberErr.Message})
		}

		// Handle unknown errors
		log.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
}

// StatusForError maps error kinds to HTTP status codes. Only invalid input is a
// client error; generation failures surface as 500 like any other failure.
func StatusForError(err error) int {
	switch domain.CodeOf(err) {
	case domain.ErrInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
