// Package llm provides the text-generation capability the query pipeline
// consumes.
package llm

import "context"

// Generator is the narrow interface the query pipeline depends on. A nil
// Generator means the capability is unconfigured.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Config represents text-generation provider configuration
type Config struct {
	Provider    string  `json:"provider"` // openai, anthropic, gemini, ollama
	Model       string  `json:"model"`
	APIKey      string  `json:"api_key,omitempty"`
	BaseURL     string  `json:"base_url,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// Provider constants for the supported backends
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)
