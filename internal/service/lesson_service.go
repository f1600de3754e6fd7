package service

import (
	"context"
	"errors"
	"time"

	"learnos/internal/domain"
	"learnos/internal/logger"
	"learnos/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LessonService defines the lesson cache-or-generate operations
type LessonService interface {
	// GetOrCreateLesson returns the stored lesson for rawTopic, generating and
	// storing one on first request.
	GetOrCreateLesson(ctx context.Context, rawTopic string) (*domain.Lesson, error)
	ListLessons(ctx context.Context) ([]domain.LessonSummary, error)
}

// lessonService implements LessonService
type lessonService struct {
	repo      domain.LessonRepository
	generator domain.LessonGenerator
	sanitizer domain.LessonSanitizer
	publisher domain.LessonEventPublisher
	timeout   time.Duration

	flights singleflight.Group
	now     func() time.Time
	newID   func() string
}

// NewLessonService creates a new instance of lessonService.
// generator may be nil, in which case cache misses fail with GENERATION_NOT_CONFIGURED.
// publisher may be nil. generationTimeout bounds a shared generation; zero means unbounded.
func NewLessonService(
	repo domain.LessonRepository,
	generator domain.LessonGenerator,
	sanitizer domain.LessonSanitizer,
	publisher domain.LessonEventPublisher,
	generationTimeout time.Duration,
) LessonService {
	return &lessonService{
		repo:      repo,
		generator: generator,
		sanitizer: sanitizer,
		publisher: publisher,
		timeout:   generationTimeout,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID:     util.NewULID,
	}
}

func (s *lessonService) GetOrCreateLesson(ctx context.Context, rawTopic string) (*domain.Lesson, error) {
	key, err := domain.NormalizeTopic(rawTopic)
	if err != nil {
		return nil, err
	}

	lesson, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		logger.Get().Error("Failed to look up lesson", zap.String("topic_key", key), zap.Error(err))
		return nil, domain.NewInternalError("failed to look up lesson", err)
	}
	if lesson != nil {
		logger.Get().Debug("Serving stored lesson", zap.String("topic_key", key))
		return lesson, nil
	}

	if s.generator == nil {
		return nil, domain.NewGenerationNotConfiguredError()
	}

	// Concurrent misses for one key share a flight. The flight outlives any
	// single caller so an abandoned request does not waste the generation.
	ch := s.flights.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := s.flightContext(ctx)
		defer cancel()
		return s.generateAndStore(flightCtx, key, rawTopic)
	})

	select {
	case <-ctx.Done():
		return nil, domain.NewGenerationFailedError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Get().Debug("Joined in-flight lesson generation", zap.String("topic_key", key))
		}
		return res.Val.(*domain.Lesson), nil
	}
}

func (s *lessonService) flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if s.timeout > 0 {
		return context.WithTimeout(detached, s.timeout)
	}
	return context.WithCancel(detached)
}

func (s *lessonService) generateAndStore(ctx context.Context, key, rawTopic string) (*domain.Lesson, error) {
	l := logger.Get()
	started := time.Now()
	l.Info("Generating lesson", zap.String("topic_key", key))

	raw, err := s.generator.Generate(ctx, rawTopic)
	if err != nil {
		l.Error("Lesson generation failed", zap.String("topic_key", key), zap.Error(err), zap.Any("context", errorContext(err)))
		var de *domain.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, domain.NewGenerationFailedError(err)
	}

	content, err := s.sanitizer.Sanitize(raw)
	if err != nil {
		l.Warn("Rejected generator output",
			zap.String("topic_key", key),
			zap.Error(err),
			zap.String("raw_output", raw))
		var de *domain.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, domain.NewInvalidStructureError(raw, err)
	}

	lesson := domain.NewLesson(s.newID(), key, content, s.now())

	if err := s.repo.InsertIfAbsent(ctx, lesson); err != nil {
		if !errors.Is(err, domain.ErrLessonAlreadyExists) {
			l.Error("Failed to store lesson", zap.String("topic_key", key), zap.Error(err))
			return nil, domain.NewInternalError("failed to store lesson", err)
		}

		// Another writer won the race; its artifact is authoritative.
		stored, findErr := s.repo.FindByKey(ctx, key)
		if findErr != nil {
			return nil, domain.NewInternalError("failed to load concurrently stored lesson", findErr)
		}
		if stored == nil {
			return nil, domain.NewInternalError("lesson missing after insert conflict", err)
		}
		l.Info("Lesson already stored by another writer", zap.String("topic_key", key))
		return stored, nil
	}

	l.Info("Stored new lesson",
		zap.String("topic_key", key),
		zap.String("lesson_id", lesson.ID),
		zap.Duration("elapsed", time.Since(started)))

	if s.publisher != nil {
		if err := s.publisher.PublishLessonCreated(ctx, lesson); err != nil {
			l.Warn("Failed to publish lesson.created", zap.String("topic_key", key), zap.Error(err))
		}
	}
	return lesson, nil
}

func (s *lessonService) ListLessons(ctx context.Context) ([]domain.LessonSummary, error) {
	summaries, err := s.repo.ListSummaries(ctx)
	if err != nil {
		logger.Get().Error("Failed to list lessons", zap.Error(err))
		return nil, domain.NewInternalError("failed to list lessons", err)
	}
	return summaries, nil
}

func errorContext(err error) map[string]interface{} {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Context
	}
	return nil
}
