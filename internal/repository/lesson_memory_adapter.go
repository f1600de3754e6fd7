package repository

import (
	"context"
	"sort"
	"sync"

	"learnos/internal/domain"
)

// LessonMemoryAdapter is a process-local domain.LessonRepository.
// Lessons are copied on the way in and out so callers cannot mutate stored artifacts.
type LessonMemoryAdapter struct {
	mu      sync.RWMutex
	lessons map[string]*domain.Lesson
}

// NewLessonMemoryAdapter creates an empty in-memory lesson store.
func NewLessonMemoryAdapter() *LessonMemoryAdapter {
	return &LessonMemoryAdapter{lessons: make(map[string]*domain.Lesson)}
}

func (a *LessonMemoryAdapter) FindByKey(_ context.Context, key string) (*domain.Lesson, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	l, ok := a.lessons[key]
	if !ok {
		return nil, nil
	}
	return cloneLesson(l), nil
}

func (a *LessonMemoryAdapter) InsertIfAbsent(_ context.Context, lesson *domain.Lesson) error {
	if lesson == nil {
		return domain.NewInternalError("cannot insert nil lesson", nil)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.lessons[lesson.TopicKey]; exists {
		return domain.ErrLessonAlreadyExists
	}
	a.lessons[lesson.TopicKey] = cloneLesson(lesson)
	return nil
}

func (a *LessonMemoryAdapter) ListSummaries(_ context.Context) ([]domain.LessonSummary, error) {
	a.mu.RLock()
	summaries := make([]domain.LessonSummary, 0, len(a.lessons))
	for _, l := range a.lessons {
		summaries = append(summaries, domain.LessonSummary{Topic: l.TopicKey, CreatedAt: l.CreatedAt})
	}
	a.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].Topic < summaries[j].Topic
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (a *LessonMemoryAdapter) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of stored lessons.
func (a *LessonMemoryAdapter) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.lessons)
}

func cloneLesson(l *domain.Lesson) *domain.Lesson {
	c := *l
	c.KeyConcepts = append([]domain.KeyConcept(nil), l.KeyConcepts...)
	c.Analogies = append([]domain.Analogy(nil), l.Analogies...)
	c.Quiz = make([]domain.QuizQuestion, len(l.Quiz))
	for i, q := range l.Quiz {
		q.Options = append([]string(nil), q.Options...)
		c.Quiz[i] = q
	}
	return &c
}
