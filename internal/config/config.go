// Package config provides configuration types and helpers for logsift.
package config

// Config holds the application-wide configuration.
type Config struct {
	Format   string         `mapstructure:"format"`
	Verbose  bool           `mapstructure:"verbose"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Docker   DockerConfig   `mapstructure:"docker"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// LLMConfig holds configuration for summarization providers.
type LLMConfig struct {
	// Provider selects which LLM to use: "ollama", "openai", "anthropic", "googleai"
	Provider string `mapstructure:"provider"`

	// Global settings applied to all providers
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`

	// Provider-specific configuration
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	GoogleAI  GoogleAIConfig  `mapstructure:"googleai"`
}

// OllamaConfig holds Ollama-specific settings.
type OllamaConfig struct {
	Host  string `mapstructure:"host"`  // API endpoint
	Model string `mapstructure:"model"` // Default model name
}

// OpenAIConfig holds OpenAI-specific settings.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`  // Optional: read from OPENAI_API_KEY if empty
	Model   string `mapstructure:"model"`    // e.g., "gpt-4o"
	BaseURL string `mapstructure:"base_url"` // Optional: for compatible endpoints
}

// AnthropicConfig holds Anthropic/Claude-specific settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"` // Optional: read from ANTHROPIC_API_KEY if empty
	Model  string `mapstructure:"model"`   // e.g. "claude-3-7-sonnet-20250219"
}

// GoogleAIConfig holds Gemini-specific settings.
type GoogleAIConfig struct {
	APIKey string `mapstructure:"api_key"` // Optional: read from GOOGLE_API_KEY if empty
	Model  string `mapstructure:"model"`   // e.g. "gemini-1.5-pro"
}

// DockerConfig holds settings for container log collection.
type DockerConfig struct {
	// Socket is the Docker socket path on the remote host.
	Socket string `mapstructure:"socket"`

	// ExcludedContainers are skipped during collection.
	ExcludedContainers []string `mapstructure:"excluded_containers"`

	// MaxLogLines caps the lines fetched per container.
	MaxLogLines int `mapstructure:"max_log_lines"`

	// IncludeStats controls whether container stats are gathered for the
	// system-info blob.
	IncludeStats bool `mapstructure:"include_stats"`
}

// DefaultsConfig holds run defaults that flags can override.
type DefaultsConfig struct {
	Color       bool `mapstructure:"color"`
	Insights    bool `mapstructure:"insights"`
	MaxExamples int  `mapstructure:"max_examples"`
}
