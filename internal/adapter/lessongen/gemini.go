package lessongen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"learnos/internal/domain"
	"learnos/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiLessonGenerator implements domain.LessonGenerator with the Gemini API.
type GeminiLessonGenerator struct {
	client *genai.Client
	model  string
	opts   Options
}

// GeminiOption customizes the underlying genai client.
type GeminiOption func(*genai.ClientConfig)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(baseURL string) GeminiOption {
	return func(c *genai.ClientConfig) {
		c.HTTPOptions.BaseURL = baseURL
	}
}

// NewGeminiLessonGenerator creates a Gemini-backed generator.
func NewGeminiLessonGenerator(ctx context.Context, apiKey, model string, opts Options, clientOpts ...GeminiOption) (*GeminiLessonGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model name cannot be empty")
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, o := range clientOpts {
		o(cc)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	logger.Get().Info("Initialized Gemini lesson generator", zap.String("model", model))
	return &GeminiLessonGenerator{client: client, model: model, opts: opts}, nil
}

// Generate implements domain.LessonGenerator
func (g *GeminiLessonGenerator) Generate(ctx context.Context, topic string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   buildGeminiSchema(domain.LessonSchema),
		MaxOutputTokens:  int32(g.opts.MaxOutputTokens),
	}
	if g.opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(g.opts.Temperature))
	}
	if g.opts.TopK > 0 {
		cfg.TopK = genai.Ptr(float32(g.opts.TopK))
	}
	if g.opts.TopP > 0 {
		cfg.TopP = genai.Ptr(float32(g.opts.TopP))
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildLessonPrompt(topic)), cfg)
	if err != nil {
		return "", mapGeminiError(err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", domain.NewGenerationFailedError(fmt.Errorf("gemini returned no candidates")).
			WithContext("model", g.model)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", domain.NewGenerationFailedError(fmt.Errorf("gemini returned an empty candidate")).
			WithContext("model", g.model).
			WithContext("finish_reason", string(result.Candidates[0].FinishReason))
	}
	return text, nil
}

// mapGeminiError keeps the upstream status for logs.
func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewGenerationFailedError(err).
			WithContext("status_code", apiErr.Code).
			WithContext("status", apiErr.Status)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return domain.NewGenerationFailedError(err).
			WithContext("status_code", apiErrPtr.Code).
			WithContext("status", apiErrPtr.Status)
	}
	return domain.NewGenerationFailedError(err)
}

// buildGeminiSchema converts a JSON Schema definition map to a genai.Schema.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{}

	if t, ok := def["type"].(string); ok {
		schema.Type = mapGeminiType(t)
	}
	if desc, ok := def["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := def["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for k, v := range props {
			if propDef, ok := v.(map[string]any); ok {
				schema.Properties[k] = buildGeminiSchema(propDef)
			}
		}
	}

	if req, ok := def["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = buildGeminiSchema(items)
	}

	if n, ok := asInt64(def["minItems"]); ok {
		schema.MinItems = genai.Ptr(n)
	}
	if n, ok := asInt64(def["maxItems"]); ok {
		schema.MaxItems = genai.Ptr(n)
	}
	if n, ok := asInt64(def["minLength"]); ok {
		schema.MinLength = genai.Ptr(n)
	}
	if n, ok := asInt64(def["minimum"]); ok {
		schema.Minimum = genai.Ptr(float64(n))
	}
	if n, ok := asInt64(def["maximum"]); ok {
		schema.Maximum = genai.Ptr(float64(n))
	}

	return schema
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func mapGeminiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
