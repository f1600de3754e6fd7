package service

import (
	"context"

	"learnos/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockLessonRepository ---
type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) FindByKey(ctx context.Context, key string) (*domain.Lesson, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockLessonRepository) InsertIfAbsent(ctx context.Context, lesson *domain.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *MockLessonRepository) ListSummaries(ctx context.Context) ([]domain.LessonSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LessonSummary), args.Error(1)
}

func (m *MockLessonRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockLessonGenerator ---
type MockLessonGenerator struct {
	mock.Mock
}

func (m *MockLessonGenerator) Generate(ctx context.Context, topic string) (string, error) {
	args := m.Called(ctx, topic)
	return args.String(0), args.Error(1)
}

// --- MockLessonSanitizer ---
type MockLessonSanitizer struct {
	mock.Mock
}

func (m *MockLessonSanitizer) Sanitize(raw string) (*domain.LessonContent, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LessonContent), args.Error(1)
}

// --- MockLessonEventPublisher ---
type MockLessonEventPublisher struct {
	mock.Mock
}

func (m *MockLessonEventPublisher) PublishLessonCreated(ctx context.Context, lesson *domain.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}
