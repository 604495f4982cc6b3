package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/logsift/logsift/internal/config"
	"github.com/ollama/ollama/api"
)

// ollamaProvider implements Provider against a local Ollama server using its
// native API client.
type ollamaProvider struct {
	client       *api.Client
	defaultModel string
	logger       *slog.Logger
}

// newOllamaProvider creates the Ollama provider. An empty host falls back to
// the OLLAMA_HOST environment variable or the client default.
func newOllamaProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if cfg.LLM.Ollama.Host != "" {
		parsedURL, err := url.Parse(cfg.LLM.Ollama.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host: %w", err)
		}
		client = api.NewClient(parsedURL, http.DefaultClient)
	}

	model := cfg.LLM.Ollama.Model
	if model == "" {
		model = "llama3.2"
	}

	logger.Info("initialized ollama provider", "host", cfg.LLM.Ollama.Host, "model", model)

	return &ollamaProvider{client: client, defaultModel: model, logger: logger}, nil
}

// Chat sends messages to Ollama and returns the complete response.
func (p *ollamaProvider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	model := p.defaultModel
	temperature := float32(0)
	maxTokens := 0
	if opts != nil {
		if opts.Model != "" {
			model = opts.Model
		}
		temperature = opts.Temperature
		maxTokens = opts.MaxTokens
	}

	ollamaMessages := make([]api.Message, len(messages))
	for i, msg := range messages {
		ollamaMessages[i] = api.Message{Role: msg.Role, Content: msg.Content}
	}

	options := map[string]interface{}{"temperature": temperature}
	if maxTokens > 0 {
		options["num_predict"] = maxTokens
	}

	req := &api.ChatRequest{
		Model:    model,
		Messages: ollamaMessages,
		Options:  options,
		Stream:   new(bool), // complete response, no streaming
	}

	p.logger.Debug("sending chat request", "provider", "ollama", "model", model, "messages", len(messages))

	var response api.ChatResponse
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %v", ErrContextCanceled, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return &Response{
		Content: response.Message.Content,
		Model:   response.Model,
	}, nil
}

// Heartbeat checks if the Ollama service is reachable and healthy.
func (p *ollamaProvider) Heartbeat(ctx context.Context) error {
	if err := p.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return nil
}
