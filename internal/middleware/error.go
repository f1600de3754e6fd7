package middleware

import (
	"errors"
	"net/http"

	"learnos/internal/domain"
	"learnos/internal/dto"
	"learnos/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Public messages. Internal error text never reaches the client.
const (
	MessageRouteNotFound    = "Route not found"
	MessageSomethingWrong   = "Something went wrong!"
	MessageTopicRequired    = "Topic is required"
	MessageGenerationFailed = "Failed to generate lesson plan. Please try again."
	MessageNotConfigured    = "Lesson generator not configured. Please add GOOGLE_API_KEY to your .env file."
	MessageListFailed       = "Failed to fetch lessons."
)

// ErrorHandler is a centralized error handler for the Fiber app
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		// Handle domain errors
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)
			log.Error("Domain error occurred",
				zap.String("path", c.Path()),
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
				zap.Error(domainErr.Cause),
			)
			return c.Status(statusCode).JSON(dto.ErrorResponse{
				Error: publicMessage(domainErr),
				Code:  string(domainErr.Code),
			})
		}

		// Handle fiber errors
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("Fiber error occurred",
				zap.String("path", c.Path()),
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			message := MessageSomethingWrong
			code := string(domain.CodeInternal)
			switch {
			case fiberErr.Code == http.StatusNotFound:
				message, code = MessageRouteNotFound, string(domain.CodeNotFound)
			case fiberErr.Code < http.StatusInternalServerError:
				message, code = fiberErr.Message, "HTTP_ERROR"
			}
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{Error: message, Code: code})
		}

		// Handle unknown errors
		log.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: MessageSomethingWrong,
			Code:  string(domain.CodeInternal),
		})
	}
}

// NotFound answers every request no route matched.
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(http.StatusNotFound).JSON(dto.ErrorResponse{
			Error: MessageRouteNotFound,
			Code:  string(domain.CodeNotFound),
		})
	}
}

// mapDomainErrorToHTTPStatus maps domain errors to HTTP status codes
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage picks the client-facing text for a domain error.
func publicMessage(err *domain.DomainError) string {
	switch err.Code {
	case domain.CodeInvalidInput, domain.CodeNotFound:
		return err.Message
	case domain.CodeGenerationNotConfigured:
		return MessageNotConfigured
	case domain.CodeGenerationFailed, domain.CodeMalformedOutput,
		domain.CodeIncompleteStructure, domain.CodeInvalidStructure:
		return MessageGenerationFailed
	default:
		return MessageSomethingWrong
	}
}
