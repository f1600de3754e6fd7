package domain

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// Lesson cardinality bounds.
const (
	MinKeyConcepts   = 2
	MaxKeyConcepts   = 3
	MinAnalogies     = 2
	MaxAnalogies     = 3
	QuizQuestionSize = 3
	QuizOptionCount  = 4

	// MaxTopicLength bounds a normalized topic, in runes.
	MaxTopicLength = 200
)

// KeyConcept is one fundamental idea of a lesson.
type KeyConcept struct {
	Title       string `json:"title" bson:"title"`
	Explanation string `json:"explanation" bson:"explanation"`
}

// Analogy explains a concept through an everyday situation.
type Analogy struct {
	Concept string `json:"concept" bson:"concept"`
	Analogy string `json:"analogy" bson:"analogy"`
}

// QuizQuestion is a four-option multiple-choice question with a zero-indexed answer.
type QuizQuestion struct {
	Question      string   `json:"question" bson:"question"`
	Options       []string `json:"options" bson:"options"`
	CorrectAnswer int      `json:"correctAnswer" bson:"correctAnswer"`
}

// IsCorrect reports whether option is the correct answer.
func (q QuizQuestion) IsCorrect(option int) bool {
	return option == q.CorrectAnswer
}

// LessonContent is the generated part of a lesson, as produced by the sanitizer.
type LessonContent struct {
	KeyConcepts []KeyConcept   `json:"keyConcepts"`
	Analogies   []Analogy      `json:"analogies"`
	Quiz        []QuizQuestion `json:"quiz"`
}

// Lesson is the immutable artifact stored once per topic key.
type Lesson struct {
	ID          string         `json:"-"`
	TopicKey    string         `json:"topic"`
	KeyConcepts []KeyConcept   `json:"keyConcepts"`
	Analogies   []Analogy      `json:"analogies"`
	Quiz        []QuizQuestion `json:"quiz"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// NewLesson assembles a lesson for key from sanitized content.
func NewLesson(id, key string, content *LessonContent, createdAt time.Time) *Lesson {
	return &Lesson{
		ID:          id,
		TopicKey:    key,
		KeyConcepts: content.KeyConcepts,
		Analogies:   content.Analogies,
		Quiz:        content.Quiz,
		CreatedAt:   createdAt,
	}
}

// LessonSummary is the listing projection of a stored lesson.
type LessonSummary struct {
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"createdAt"`
}

// NormalizeTopic derives the canonical topic key from user input.
// Topics that differ only in case or surrounding whitespace collide.
func NormalizeTopic(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", NewInvalidInputError("Topic is required")
	}
	if utf8.RuneCountInString(key) > MaxTopicLength {
		return "", NewInvalidInputError("Topic is too long")
	}
	return key, nil
}

// LessonRepository is the persistence port for lessons.
type LessonRepository interface {
	// FindByKey returns nil, nil when no lesson is stored for key.
	FindByKey(ctx context.Context, key string) (*Lesson, error)
	// InsertIfAbsent stores lesson or returns ErrLessonAlreadyExists if its
	// topic key is taken. At most one concurrent insert per key succeeds.
	InsertIfAbsent(ctx context.Context, lesson *Lesson) error
	ListSummaries(ctx context.Context) ([]LessonSummary, error)
	Ping(ctx context.Context) error
}

// LessonGenerator invokes the external generative model and returns its raw reply.
type LessonGenerator interface {
	Generate(ctx context.Context, topic string) (string, error)
}

// LessonSanitizer turns an untrusted generator reply into lesson content.
type LessonSanitizer interface {
	Sanitize(raw string) (*LessonContent, error)
}

// LessonEventPublisher announces newly stored lessons.
type LessonEventPublisher interface {
	PublishLessonCreated(ctx context.Context, lesson *Lesson) error
}
