// Package middleware holds the fiber middlewares shared across routes.
package middleware

import (
	"errors"
	"net/http"

	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the centralized error handling middleware. It maps domain
// errors to status codes and renders the error envelope: "fail" for client
// faults, "error" for server faults.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)

			if domainErr.Class == domain.FaultServer {
				log.Error("Request failed",
					zap.String("path", c.Path()),
					zap.String("code", string(domainErr.Code)),
					zap.Int("status", statusCode),
					zap.Error(domainErr),
				)
			} else {
				log.Warn("Request rejected",
					zap.String("path", c.Path()),
					zap.String("code", string(domainErr.Code)),
					zap.Int("status", statusCode),
					zap.String("message", domainErr.Message),
				)
			}

			return c.Status(statusCode).JSON(dto.ErrorResponse{
				Status:  statusWord(domainErr.Class),
				Message: domainErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("HTTP error",
				zap.String("path", c.Path()),
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			status := "error"
			if fiberErr.Code < http.StatusInternalServerError {
				status = "fail"
			}
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{
				Status:  status,
				Message: fiberErr.Message,
			})
		}

		log.Error("Unhandled error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Status:  "error",
			Message: "An unexpected error occurred",
		})
	}
}

func statusWord(class domain.FaultClass) string {
	if class == domain.FaultServer {
		return "error"
	}
	return "fail"
}

func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.ErrUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case domain.ErrExtractionFailed:
		return http.StatusUnprocessableEntity
	case domain.ErrMissingParameters, domain.ErrValidationInput:
		return http.StatusBadRequest
	case domain.ErrGenerationDown:
		return http.StatusServiceUnavailable
	case domain.ErrGenerationExhausted:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
