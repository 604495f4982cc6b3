package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/logsift/logsift/internal/config"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// resolveAPIKey checks config first, then falls back to environment variable.
// Returns empty string if neither is set.
func resolveAPIKey(configKey, envVarName string) string {
	if configKey != "" {
		return configKey
	}
	return os.Getenv(envVarName)
}

// newOpenAIProvider creates an OpenAI provider.
func newOpenAIProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	apiKey := resolveAPIKey(cfg.LLM.OpenAI.APIKey, "OPENAI_API_KEY")

	if apiKey == "" {
		return nil, fmt.Errorf(
			"openai api key not configured: set OPENAI_API_KEY environment variable or llm.openai.api_key in config",
		)
	}

	model := cfg.LLM.OpenAI.Model
	if model == "" {
		model = "gpt-4o"
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}

	if cfg.LLM.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.LLM.OpenAI.BaseURL))
	}

	m, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai provider: %w", err)
	}

	logger.Info("initialized openai provider", "model", model)

	return &langchainAdapter{
		model:        m,
		defaultModel: model,
		providerType: "openai",
		logger:       logger,
	}, nil
}

// newAnthropicProvider creates an Anthropic/Claude provider.
func newAnthropicProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	apiKey := resolveAPIKey(cfg.LLM.Anthropic.APIKey, "ANTHROPIC_API_KEY")

	if apiKey == "" {
		return nil, fmt.Errorf(
			"anthropic api key not configured: set ANTHROPIC_API_KEY environment variable or llm.anthropic.api_key in config",
		)
	}

	model := cfg.LLM.Anthropic.Model
	if model == "" {
		model = "claude-3-7-sonnet-20250219"
	}

	m, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic provider: %w", err)
	}

	logger.Info("initialized anthropic provider", "model", model)

	return &langchainAdapter{
		model:        m,
		defaultModel: model,
		providerType: "anthropic",
		logger:       logger,
	}, nil
}

// newGoogleAIProvider creates a Google AI (Gemini) provider.
func newGoogleAIProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Provider, error) {
	apiKey := resolveAPIKey(cfg.LLM.GoogleAI.APIKey, "GOOGLE_API_KEY")

	if apiKey == "" {
		return nil, fmt.Errorf(
			"google api key not configured: set GOOGLE_API_KEY environment variable or llm.googleai.api_key in config",
		)
	}

	model := cfg.LLM.GoogleAI.Model
	if model == "" {
		model = "gemini-1.5-pro"
	}

	m, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create googleai provider: %w", err)
	}

	logger.Info("initialized googleai provider", "model", model)

	return &langchainAdapter{
		model:        m,
		defaultModel: model,
		providerType: "googleai",
		logger:       logger,
	}, nil
}
