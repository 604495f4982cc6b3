package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// langchainAdapter implements the Provider interface on top of langchaingo,
// which gives the cloud providers (OpenAI, Anthropic, Google AI) one shared
// code path.
type langchainAdapter struct {
	model        llms.Model
	defaultModel string
	providerType string
	logger       *slog.Logger
}

// Chat sends messages and returns a complete response.
func (a *langchainAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	lcMessages := convertMessages(messages)
	lcOpts := convertOptions(opts, a.defaultModel)

	a.logger.Debug("sending chat request", "provider", a.providerType, "messages", len(messages))

	resp, err := a.model.GenerateContent(ctx, lcMessages, lcOpts...)
	if err != nil {
		return nil, wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choice list", ErrInvalidResponse)
	}

	return &Response{
		Content: resp.Choices[0].Content,
		Model:   a.defaultModel,
	}, nil
}

// Heartbeat checks reachability with a minimal one-token exchange.
func (a *langchainAdapter) Heartbeat(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := a.Chat(ctx, []Message{
		{Role: "user", Content: "ping"},
	}, &ChatOptions{
		MaxTokens: 1,
	})

	return err
}

func convertMessages(messages []Message) []llms.MessageContent {
	result := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		result[i] = llms.TextParts(convertRole(msg.Role), msg.Content)
	}
	return result
}

func convertRole(role string) llms.ChatMessageType {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem
	case "user":
		return llms.ChatMessageTypeHuman
	case "assistant":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeGeneric
	}
}

func convertOptions(opts *ChatOptions, defaultModel string) []llms.CallOption {
	result := []llms.CallOption{}

	if opts != nil && opts.Model != "" {
		result = append(result, llms.WithModel(opts.Model))
	} else {
		result = append(result, llms.WithModel(defaultModel))
	}

	if opts != nil {
		result = append(result, llms.WithTemperature(float64(opts.Temperature)))
	}

	if opts != nil && opts.MaxTokens > 0 {
		result = append(result, llms.WithMaxTokens(opts.MaxTokens))
	}

	return result
}

// wrapError converts langchaingo errors to our error types.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case llms.IsRateLimitError(err):
		return fmt.Errorf("%w: rate limit exceeded", ErrProviderUnavailable)
	case llms.IsAuthenticationError(err):
		return fmt.Errorf("authentication failed (check API key): %w", err)
	case llms.IsTokenLimitError(err):
		return fmt.Errorf("%w: context too long", ErrInvalidResponse)
	case llms.IsProviderUnavailableError(err):
		return ErrProviderUnavailable
	case llms.IsCanceledError(err):
		return ErrContextCanceled
	default:
		return err
	}
}
