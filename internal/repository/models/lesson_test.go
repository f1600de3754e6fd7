package models

import (
	"testing"
	"time"

	"learnos/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONColumn_Value(t *testing.T) {
	col := JSONColumn[[]domain.Analogy]{Val: []domain.Analogy{{Concept: "mass", Analogy: "a bowling ball"}}}
	v, err := col.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"concept":"mass","analogy":"a bowling ball"}]`, v.(string))
}

func TestJSONColumn_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     interface{}
		want    []string
		wantErr bool
	}{
		{"string", `["a","b"]`, []string{"a", "b"}, false},
		{"bytes", []byte(`["c"]`), []string{"c"}, false},
		{"null", nil, nil, false},
		{"unsupported type", 42, nil, true},
		{"invalid json", "[", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := JSONColumn[[]string]{Val: []string{"stale"}}
			err := col.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, col.Val)
		})
	}
}

func TestLessonConversions(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	lesson := &domain.Lesson{
		ID:          "01HGZ8VNRYXS8QKNJV5GRWPWDQ",
		TopicKey:    "gravity",
		KeyConcepts: []domain.KeyConcept{{Title: "Mass", Explanation: "How much stuff"}},
		Analogies:   []domain.Analogy{{Concept: "Mass", Analogy: "A heavy backpack"}},
		Quiz:        []domain.QuizQuestion{{Question: "Q?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 2}},
		CreatedAt:   now,
	}

	assert.Equal(t, lesson, NewLessonModel(lesson).ToDomain())
	assert.Equal(t, lesson, NewLessonDocument(lesson).ToDomain())
	assert.Equal(t, "gravity", NewLessonDocument(lesson).Topic)
}
