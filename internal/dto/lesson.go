package dto

import (
	"time"

	"learnos/internal/domain"
)

// GenerateLessonRequest is the body of POST /api/generate
// @Description Request body for generating or fetching a lesson
type GenerateLessonRequest struct {
	Topic string `json:"topic" example:"Photosynthesis"`
}

// LessonResponse represents a lesson in the API response
// @Description A beginner lesson with key concepts, analogies and a quiz
type LessonResponse struct {
	Topic       string                `json:"topic" example:"photosynthesis"`
	KeyConcepts []domain.KeyConcept   `json:"keyConcepts"`
	Analogies   []domain.Analogy      `json:"analogies"`
	Quiz        []domain.QuizQuestion `json:"quiz"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// LessonSummaryResponse is one entry of GET /api/lessons
type LessonSummaryResponse struct {
	Topic     string    `json:"topic" example:"photosynthesis"`
	CreatedAt time.Time `json:"createdAt"`
}

// HealthEnv reports configuration facts without leaking secrets
type HealthEnv struct {
	HasAPIKey bool `json:"hasApiKey"`
	Port      int  `json:"port" example:"3000"`
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status    string            `json:"status" example:"OK"`
	Timestamp string            `json:"timestamp" example:"2024-05-01T12:00:00.000Z"`
	Env       HealthEnv         `json:"env"`
	Checks    map[string]string `json:"checks"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error" example:"Topic is required"`
	Code  string `json:"code,omitempty" example:"INVALID_INPUT"`
}

// NewLessonResponse maps a stored lesson to its API shape.
func NewLessonResponse(l *domain.Lesson) LessonResponse {
	return LessonResponse{
		Topic:       l.TopicKey,
		KeyConcepts: l.KeyConcepts,
		Analogies:   l.Analogies,
		Quiz:        l.Quiz,
		CreatedAt:   l.CreatedAt,
	}
}

// NewLessonSummaryResponses maps listing projections to their API shape.
func NewLessonSummaryResponses(summaries []domain.LessonSummary) []LessonSummaryResponse {
	out := make([]LessonSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, LessonSummaryResponse{Topic: s.Topic, CreatedAt: s.CreatedAt})
	}
	return out
}
