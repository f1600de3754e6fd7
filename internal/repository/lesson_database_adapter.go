package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"learnos/internal/domain"
	"learnos/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// oracleUniqueViolation is reported by both go-ora and godror when a unique constraint rejects an insert.
const oracleUniqueViolation = "ORA-00001"

// LessonDatabaseAdapter implements domain.LessonRepository on an Oracle lessons table.
type LessonDatabaseAdapter struct {
	db *sqlx.DB
}

// NewLessonDatabaseAdapter creates a new instance of LessonDatabaseAdapter
func NewLessonDatabaseAdapter(db *sqlx.DB) domain.LessonRepository {
	return &LessonDatabaseAdapter{db: db}
}

// FindByKey implements domain.LessonRepository
func (a *LessonDatabaseAdapter) FindByKey(ctx context.Context, key string) (*domain.Lesson, error) {
	var row models.Lesson
	query := `SELECT
		id "id",
		topic_key "topic_key",
		key_concepts "key_concepts",
		analogies "analogies",
		quiz "quiz",
		created_at "created_at"
	FROM lessons
	WHERE topic_key = :1`

	if err := a.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lesson %q: %w", key, err)
	}
	return row.ToDomain(), nil
}

// InsertIfAbsent implements domain.LessonRepository.
// The unique index on topic_key arbitrates concurrent writers.
func (a *LessonDatabaseAdapter) InsertIfAbsent(ctx context.Context, lesson *domain.Lesson) error {
	if lesson == nil {
		return fmt.Errorf("cannot insert nil lesson")
	}
	row := models.NewLessonModel(lesson)

	query := `INSERT INTO lessons (
		id, topic_key, key_concepts, analogies, quiz, created_at
	) VALUES (
		:1, :2, :3, :4, :5, :6
	)`

	_, err := a.db.ExecContext(ctx, query,
		row.ID,
		row.TopicKey,
		row.KeyConcepts,
		row.Analogies,
		row.Quiz,
		row.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), oracleUniqueViolation) {
			return domain.ErrLessonAlreadyExists
		}
		return fmt.Errorf("failed to insert lesson %q: %w", lesson.TopicKey, err)
	}
	return nil
}

// ListSummaries implements domain.LessonRepository
func (a *LessonDatabaseAdapter) ListSummaries(ctx context.Context) ([]domain.LessonSummary, error) {
	var rows []models.LessonSummary
	query := `SELECT
		topic_key "topic_key",
		created_at "created_at"
	FROM lessons
	ORDER BY created_at DESC`

	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}

	summaries := make([]domain.LessonSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, domain.LessonSummary{Topic: r.TopicKey, CreatedAt: r.CreatedAt})
	}
	return summaries, nil
}

// Ping implements domain.LessonRepository
func (a *LessonDatabaseAdapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}
