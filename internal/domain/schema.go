package domain

// LessonSchemaName identifies the lesson output contract.
const LessonSchemaName = "lesson-plan"

// LessonSchema is the JSON Schema the generator is asked to follow and the
// sanitizer validates against.
var LessonSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"keyConcepts": map[string]any{
			"type":        "array",
			"description": "2-3 fundamental concepts a complete beginner must understand",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       map[string]any{"type": "string", "minLength": 1},
					"explanation": map[string]any{"type": "string", "minLength": 1},
				},
				"required": []any{"title", "explanation"},
			},
			"minItems": MinKeyConcepts,
			"maxItems": MaxKeyConcepts,
		},
		"analogies": map[string]any{
			"type":        "array",
			"description": "2-3 relatable analogies grounded in everyday experience",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"concept": map[string]any{"type": "string", "minLength": 1},
					"analogy": map[string]any{"type": "string", "minLength": 1},
				},
				"required": []any{"concept", "analogy"},
			},
			"minItems": MinAnalogies,
			"maxItems": MaxAnalogies,
		},
		"quiz": map[string]any{
			"type":        "array",
			"description": "Exactly 3 multiple-choice questions about the key concepts",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question": map[string]any{"type": "string", "minLength": 1},
					"options": map[string]any{
						"type":     "array",
						"items":    map[string]any{"type": "string", "minLength": 1},
						"minItems": QuizOptionCount,
						"maxItems": QuizOptionCount,
					},
					"correctAnswer": map[string]any{
						"type":    "integer",
						"minimum": 0,
						"maximum": QuizOptionCount - 1,
					},
				},
				"required": []any{"question", "options", "correctAnswer"},
			},
			"minItems": QuizQuestionSize,
			"maxItems": QuizQuestionSize,
		},
	},
	"required": []any{"keyConcepts", "analogies", "quiz"},
}

// LessonRequiredFields are the top-level sections every lesson reply must carry.
var LessonRequiredFields = []string{"keyConcepts", "analogies", "quiz"}
