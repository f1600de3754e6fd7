package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"learnos/internal/domain"
)

// JSONColumn stores a value as a JSON document in a text (CLOB) column.
type JSONColumn[T any] struct {
	Val T
}

// Value implements driver.Valuer.
func (c JSONColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(c.Val)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (c *JSONColumn[T]) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		var zero T
		c.Val = zero
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported type for json column: %T", src)
	}
	if err := json.Unmarshal(data, &c.Val); err != nil {
		return fmt.Errorf("failed to decode json column: %w", err)
	}
	return nil
}

// Lesson represents a row of the lessons table.
type Lesson struct {
	ID          string                            `db:"id"`
	TopicKey    string                            `db:"topic_key"`
	KeyConcepts JSONColumn[[]domain.KeyConcept]   `db:"key_concepts"`
	Analogies   JSONColumn[[]domain.Analogy]      `db:"analogies"`
	Quiz        JSONColumn[[]domain.QuizQuestion] `db:"quiz"`
	CreatedAt   time.Time                         `db:"created_at"`
}

// LessonSummary is the listing projection of the lessons table.
type LessonSummary struct {
	TopicKey  string    `db:"topic_key"`
	CreatedAt time.Time `db:"created_at"`
}

// LessonDocument is the MongoDB representation of a lesson.
type LessonDocument struct {
	ID          string                `bson:"_id"`
	Topic       string                `bson:"topic"`
	KeyConcepts []domain.KeyConcept   `bson:"keyConcepts"`
	Analogies   []domain.Analogy      `bson:"analogies"`
	Quiz        []domain.QuizQuestion `bson:"quiz"`
	CreatedAt   time.Time             `bson:"createdAt"`
}

// NewLessonModel converts a domain lesson into its table row.
func NewLessonModel(l *domain.Lesson) *Lesson {
	return &Lesson{
		ID:          l.ID,
		TopicKey:    l.TopicKey,
		KeyConcepts: JSONColumn[[]domain.KeyConcept]{Val: l.KeyConcepts},
		Analogies:   JSONColumn[[]domain.Analogy]{Val: l.Analogies},
		Quiz:        JSONColumn[[]domain.QuizQuestion]{Val: l.Quiz},
		CreatedAt:   l.CreatedAt,
	}
}

// ToDomain converts the row back into a domain lesson.
func (m *Lesson) ToDomain() *domain.Lesson {
	return &domain.Lesson{
		ID:          m.ID,
		TopicKey:    m.TopicKey,
		KeyConcepts: m.KeyConcepts.Val,
		Analogies:   m.Analogies.Val,
		Quiz:        m.Quiz.Val,
		CreatedAt:   m.CreatedAt,
	}
}

// NewLessonDocument converts a domain lesson into its document form.
func NewLessonDocument(l *domain.Lesson) *LessonDocument {
	return &LessonDocument{
		ID:          l.ID,
		Topic:       l.TopicKey,
		KeyConcepts: l.KeyConcepts,
		Analogies:   l.Analogies,
		Quiz:        l.Quiz,
		CreatedAt:   l.CreatedAt,
	}
}

// ToDomain converts the document back into a domain lesson.
func (d *LessonDocument) ToDomain() *domain.Lesson {
	return &domain.Lesson{
		ID:          d.ID,
		TopicKey:    d.Topic,
		KeyConcepts: d.KeyConcepts,
		Analogies:   d.Analogies,
		Quiz:        d.Quiz,
		CreatedAt:   d.CreatedAt,
	}
}
