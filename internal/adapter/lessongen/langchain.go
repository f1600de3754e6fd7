package lessongen

import (
	"context"
	"fmt"
	"strings"

	"learnos/internal/domain"
	"learnos/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// LangChainLessonGenerator implements domain.LessonGenerator over any langchaingo model.
type LangChainLessonGenerator struct {
	llm      llms.Model
	provider string
	opts     Options
}

// NewLangChainLessonGenerator wraps an existing model.
func NewLangChainLessonGenerator(llm llms.Model, provider string, opts Options) *LangChainLessonGenerator {
	return &LangChainLessonGenerator{llm: llm, provider: provider, opts: opts}
}

// NewOllamaLessonGenerator connects to an Ollama server.
func NewOllamaLessonGenerator(serverURL, model string, opts Options) (*LangChainLessonGenerator, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	llm, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(serverURL),
		ollama.WithFormat("json"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client: %w", err)
	}
	logger.Get().Info("Initialized Ollama lesson generator", zap.String("model", model), zap.String("server_url", serverURL))
	return NewLangChainLessonGenerator(llm, "ollama", opts), nil
}

// NewOpenAILessonGenerator uses the OpenAI chat completions API.
func NewOpenAILessonGenerator(apiKey, model string, opts Options) (*LangChainLessonGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("openai model name cannot be empty")
	}
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI client: %w", err)
	}
	logger.Get().Info("Initialized OpenAI lesson generator", zap.String("model", model))
	return NewLangChainLessonGenerator(llm, "openai", opts), nil
}

// Generate implements domain.LessonGenerator
func (g *LangChainLessonGenerator) Generate(ctx context.Context, topic string) (string, error) {
	prompt, err := buildSchemaPrompt(topic)
	if err != nil {
		return "", domain.NewInternalError("failed to build lesson prompt", err)
	}

	callOpts := []llms.CallOption{llms.WithJSONMode()}
	if g.opts.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(g.opts.Temperature))
	}
	if g.opts.TopK > 0 {
		callOpts = append(callOpts, llms.WithTopK(g.opts.TopK))
	}
	if g.opts.TopP > 0 {
		callOpts = append(callOpts, llms.WithTopP(g.opts.TopP))
	}
	if g.opts.MaxOutputTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(g.opts.MaxOutputTokens))
	}

	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, callOpts...)
	if err != nil {
		return "", domain.NewGenerationFailedError(err).WithContext("provider", g.provider)
	}

	response = stripThinking(response)
	if response == "" {
		return "", domain.NewGenerationFailedError(fmt.Errorf("%s returned an empty response", g.provider)).
			WithContext("provider", g.provider)
	}
	return response, nil
}

// stripThinking removes a leading <think>...</think> block emitted by reasoning models.
func stripThinking(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "<think>"); start != -1 {
		if end := strings.Index(s, "</think>"); end > start {
			s = strings.TrimSpace(s[:start] + s[end+len("</think>"):])
		}
	}
	return s
}
