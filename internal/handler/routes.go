package handler

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(app fiber.Router, lessons *LessonHandler, health *HealthHandler) {
	api := app.Group("/api")
	api.Post("/generate", lessons.GenerateLesson)
	api.Get("/lessons", lessons.ListLessons)
	api.Get("/health", health.Health)
}
