package handler

import (
	"learnos/internal/domain"
	"learnos/internal/dto"
	"learnos/internal/logger"
	"learnos/internal/middleware"
	"learnos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LessonHandler handles lesson-related HTTP requests
type LessonHandler struct {
	service service.LessonService
}

// NewLessonHandler creates a new LessonHandler instance
func NewLessonHandler(service service.LessonService) *LessonHandler {
	return &LessonHandler{service: service}
}

// GenerateLesson godoc
// @Summary Get or generate a lesson
// @Description Returns the stored lesson for a topic, generating it on first request
// @Tags lessons
// @Accept json
// @Produce json
// @Param request body dto.GenerateLessonRequest true "Topic"
// @Success 200 {object} dto.LessonResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate [post]
func (h *LessonHandler) GenerateLesson(c *fiber.Ctx) error {
	var req dto.GenerateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Rejected generate request body", zap.Error(err))
		return domain.NewInvalidInputError(middleware.MessageTopicRequired)
	}

	lesson, err := h.service.GetOrCreateLesson(c.UserContext(), req.Topic)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLessonResponse(lesson))
}

// ListLessons godoc
// @Summary List stored lessons
// @Description Returns the topic and creation time of every stored lesson, newest first
// @Tags lessons
// @Produce json
// @Success 200 {array} dto.LessonSummaryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /lessons [get]
func (h *LessonHandler) ListLessons(c *fiber.Ctx) error {
	summaries, err := h.service.ListLessons(c.UserContext())
	if err != nil {
		logger.Get().Error("Failed to list lessons", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: middleware.MessageListFailed,
			Code:  string(domain.CodeInternal),
		})
	}
	return c.JSON(dto.NewLessonSummaryResponses(summaries))
}
