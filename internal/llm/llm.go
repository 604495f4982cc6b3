// Package llm provides the summarization collaborators for logsift.
//
// The package defines a Provider interface covering exactly what the engine
// needs from a language model — one complete chat exchange plus a health
// check — and a closed set of implementations (Ollama, OpenAI, Anthropic,
// Google AI) selected by configuration. Nothing in the engine ever depends
// on a specific variant.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/logsift/logsift/internal/config"
)

// Provider defines the interface for LLM interactions.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Chat sends messages and returns a complete response.
	// The context can be used to cancel the request.
	Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error)

	// Heartbeat checks if the provider is reachable and healthy.
	Heartbeat(ctx context.Context) error
}

// Message represents a single message in a conversation.
type Message struct {
	// Role identifies the message sender: "system", "user", or "assistant"
	Role string

	// Content is the message text
	Content string
}

// ChatOptions configures chat behavior. Nil opts uses provider defaults.
type ChatOptions struct {
	// Model specifies which model to use (e.g., "llama3.2", "gpt-4o")
	Model string

	// Temperature controls randomness; 0 keeps summaries consistent.
	Temperature float32

	// MaxTokens limits the response length (0 = provider default)
	MaxTokens int
}

// Response represents a complete LLM response.
type Response struct {
	// Content is the generated text
	Content string

	// Model is the name of the model that generated the response
	Model string
}

// Common errors returned by LLM providers.
var (
	// ErrProviderUnavailable indicates the LLM provider is not reachable
	ErrProviderUnavailable = errors.New("llm provider is not reachable")

	// ErrInvalidResponse indicates the provider returned an invalid response
	ErrInvalidResponse = errors.New("provider returned invalid response")

	// ErrContextCanceled indicates the operation was canceled via context
	ErrContextCanceled = errors.New("operation was canceled")
)

// NewProvider creates an LLM provider based on the configuration.
// Returns an error if the provider type is unknown or initialization fails.
func NewProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Provider, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	providerType := strings.ToLower(cfg.LLM.Provider)
	logger.Debug("creating llm provider", "type", providerType)

	switch providerType {
	case "ollama":
		return newOllamaProvider(cfg, logger)
	case "openai", "chatgpt":
		return newOpenAIProvider(cfg, logger)
	case "anthropic", "claude":
		return newAnthropicProvider(cfg, logger)
	case "googleai", "gemini":
		return newGoogleAIProvider(ctx, cfg, logger)
	case "":
		return nil, errors.New("llm provider not specified in configuration")
	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: ollama, openai, anthropic, googleai)", providerType)
	}
}

// ProviderNames is the closed set of selectable providers, in the order the
// comparison mode walks them.
var ProviderNames = []string{"ollama", "openai", "anthropic", "googleai"}

// HasCredentials reports whether the named provider has an API key available
// from config or environment. Ollama needs no key and always qualifies.
func HasCredentials(cfg *config.Config, provider string) bool {
	switch strings.ToLower(provider) {
	case "ollama":
		return true
	case "openai", "chatgpt":
		return resolveAPIKey(cfg.LLM.OpenAI.APIKey, "OPENAI_API_KEY") != ""
	case "anthropic", "claude":
		return resolveAPIKey(cfg.LLM.Anthropic.APIKey, "ANTHROPIC_API_KEY") != ""
	case "googleai", "gemini":
		return resolveAPIKey(cfg.LLM.GoogleAI.APIKey, "GOOGLE_API_KEY") != ""
	default:
		return false
	}
}

// DefaultModel returns the configured model for the active provider.
func DefaultModel(cfg *config.Config) string {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "ollama":
		return cfg.LLM.Ollama.Model
	case "openai", "chatgpt":
		return cfg.LLM.OpenAI.Model
	case "anthropic", "claude":
		return cfg.LLM.Anthropic.Model
	case "googleai", "gemini":
		return cfg.LLM.GoogleAI.Model
	default:
		return ""
	}
}
