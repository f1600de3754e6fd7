package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"learnos/internal/cache"
	"learnos/internal/domain"
	"learnos/internal/logger"

	"go.uber.org/zap"
)

// cachedLesson is the cache payload; unlike the API shape it keeps the ID.
type cachedLesson struct {
	ID     string         `json:"id"`
	Lesson *domain.Lesson `json:"lesson"`
}

// CachedLessonRepository decorates a LessonRepository with a read-through cache.
// Lessons are immutable, so entries never need invalidation. Cache failures
// degrade to the underlying store and are only logged.
type CachedLessonRepository struct {
	next  domain.LessonRepository
	cache domain.Cache
	ttl   time.Duration
}

// NewCachedLessonRepository wraps next. A zero ttl keeps entries until evicted.
func NewCachedLessonRepository(next domain.LessonRepository, c domain.Cache, ttl time.Duration) domain.LessonRepository {
	return &CachedLessonRepository{next: next, cache: c, ttl: ttl}
}

func (r *CachedLessonRepository) FindByKey(ctx context.Context, key string) (*domain.Lesson, error) {
	cacheKey := cache.LessonKey(key)

	data, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var entry cachedLesson
		jsonErr := json.Unmarshal([]byte(data), &entry)
		if jsonErr == nil && entry.Lesson != nil {
			entry.Lesson.ID = entry.ID
			return entry.Lesson, nil
		}
		logger.Get().Warn("Discarding undecodable cached lesson", zap.String("key", cacheKey), zap.Error(jsonErr))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("Lesson cache read failed, falling back to store", zap.String("key", cacheKey), zap.Error(err))
	}

	lesson, err := r.next.FindByKey(ctx, key)
	if err != nil || lesson == nil {
		return lesson, err
	}
	r.store(ctx, lesson)
	return lesson, nil
}

func (r *CachedLessonRepository) InsertIfAbsent(ctx context.Context, lesson *domain.Lesson) error {
	if err := r.next.InsertIfAbsent(ctx, lesson); err != nil {
		return err
	}
	r.store(ctx, lesson)
	return nil
}

func (r *CachedLessonRepository) ListSummaries(ctx context.Context) ([]domain.LessonSummary, error) {
	return r.next.ListSummaries(ctx)
}

// Ping reports only the backing store; cache health is checked separately.
func (r *CachedLessonRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

func (r *CachedLessonRepository) store(ctx context.Context, lesson *domain.Lesson) {
	cacheKey := cache.LessonKey(lesson.TopicKey)
	data, err := json.Marshal(cachedLesson{ID: lesson.ID, Lesson: lesson})
	if err != nil {
		logger.Get().Warn("Failed to encode lesson for cache", zap.String("key", cacheKey), zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, cacheKey, string(data), r.ttl); err != nil {
		logger.Get().Warn("Lesson cache write failed", zap.String("key", cacheKey), zap.Error(err))
	}
}
