package lessongen

import (
	"context"
	"fmt"

	"learnos/internal/config"
	"learnos/internal/domain"
)

// New builds the generator selected by cfg.Generator.Provider.
// It returns nil, nil when the provider has no credentials, leaving generation unconfigured.
func New(ctx context.Context, cfg *config.Config) (domain.LessonGenerator, error) {
	if !cfg.GenerationConfigured() {
		return nil, nil
	}
	opts := OptionsFromConfig(cfg.Generator)

	switch cfg.Generator.Provider {
	case config.ProviderGemini:
		gen, err := NewGeminiLessonGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, opts)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case config.ProviderOllama, config.ProviderOpenAI:
		var (
			gen *LangChainLessonGenerator
			err error
		)
		if cfg.Generator.Provider == config.ProviderOllama {
			gen, err = NewOllamaLessonGenerator(cfg.Ollama.ServerURL, cfg.Ollama.Model, opts)
		} else {
			gen, err = NewOpenAILessonGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model, opts)
		}
		if err != nil {
			return nil, err
		}
		return gen, nil
	}
	return nil, fmt.Errorf("unsupported generator provider: %q", cfg.Generator.Provider)
}
