// Package llm wraps the external completion service behind a single call:
// a prompt plus a structural schema in, response text out.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Provider identifies the completion provider to use.
type Provider string

// ErrMissingAPIKey is returned when no credential is configured for a provider
// that requires one. It is a deployment problem, not a per-request failure.
var ErrMissingAPIKey = errors.New("API key is required")

// Config holds configuration for creating a completion client.
type Config struct {
	Provider    Provider
	Model       string
	APIKey      string
	BaseURL     string // Ollama server or OpenAI-compatible gateway
	Temperature *float32
}

// Request is one outbound completion call.
type Request struct {
	Prompt string
	// Schema constrains the response to structured JSON. Nil means free text.
	Schema *genai.Schema
	// Model overrides the configured model when set.
	Model string
}

// Completer sends a single request to the completion service and returns the
// raw response text. Implementations must not retry.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// NewCompleter creates a Completer for the configured provider.
func NewCompleter(ctx context.Context, cfg Config) (Completer, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, fmt.Errorf("gemini: %w (set %s or %s)", ErrMissingAPIKey, EnvAPIKey, EnvGeminiAPIKey)
		}
		return NewGeminiCompleter(ctx, cfg)
	case ProviderOpenAI, ProviderOllama, ProviderAnthropic:
		if cfg.Model == "" {
			cfg.Model = DefaultModelForProvider(string(cfg.Provider))
		}
		chat, err := NewChatModel(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewChatCompleter(chat, string(cfg.Provider)+":"+cfg.Model, cfg.Temperature), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: gemini, openai, anthropic, ollama)", cfg.Provider)
	}
}

// ValidateProvider checks if the given provider string is supported.
func ValidateProvider(p string) (Provider, error) {
	switch v := Provider(strings.ToLower(strings.TrimSpace(p))); v {
	case ProviderGemini, ProviderOpenAI, ProviderOllama, ProviderAnthropic:
		return v, nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", p)
	}
}
