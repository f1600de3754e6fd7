// Package lessongen invokes generative models to draft beginner lessons.
package lessongen

import (
	"encoding/json"
	"fmt"

	"learnos/internal/config"
	"learnos/internal/domain"
)

const lessonPromptTemplate = `You are an expert instructional designer creating a 5-minute lesson plan for beginners on the topic: "%s".

Your task is to create a structured lesson plan with:

1. KEY CONCEPTS: Identify 2-3 fundamental concepts that a complete beginner must understand about this topic. Each concept should have a clear title and a simple, jargon-free explanation (2-3 sentences).

2. ANALOGIES: Create 2-3 simple, relatable analogies to explain complex aspects of the topic. Use everyday situations that anyone can understand.

3. QUIZ: Create exactly 3 multiple-choice questions to test understanding of the key concepts. Each question should have 4 options with exactly one correct answer. Provide the index (0-3) of the correct answer.

Guidelines:
- Keep language simple and accessible to beginners
- Avoid technical jargon unless absolutely necessary
- Make analogies relatable to everyday experiences
- Ensure quiz questions directly relate to the key concepts taught
- Be concise but comprehensive

Please respond with a valid JSON object that matches this exact structure:

{
  "keyConcepts": [
    {
      "title": "Concept Title",
      "explanation": "Clear, simple explanation of the concept"
    }
  ],
  "analogies": [
    {
      "concept": "Concept being explained",
      "analogy": "Simple analogy explanation"
    }
  ],
  "quiz": [
    {
      "question": "Question text",
      "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
      "correctAnswer": 0
    }
  ]
}`

// BuildLessonPrompt renders the lesson request for topic as typed by the user.
func BuildLessonPrompt(topic string) string {
	return fmt.Sprintf(lessonPromptTemplate, topic)
}

// buildSchemaPrompt appends the JSON Schema for providers without native schema support.
func buildSchemaPrompt(topic string) (string, error) {
	schema, err := json.MarshalIndent(domain.LessonSchema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal lesson schema: %w", err)
	}
	return BuildLessonPrompt(topic) +
		"\n\nThe JSON object must validate against this JSON Schema. Respond with the JSON object only:\n\n" +
		string(schema), nil
}

// Options are the sampling settings shared by every provider.
type Options struct {
	Temperature     float64
	TopK            int
	TopP            float64
	MaxOutputTokens int
}

// OptionsFromConfig copies the sampling settings from the generator config.
func OptionsFromConfig(cfg config.GeneratorConfig) Options {
	return Options{
		Temperature:     cfg.Temperature,
		TopK:            cfg.TopK,
		TopP:            cfg.TopP,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
}
