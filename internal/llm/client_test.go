package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     Provider
		wantErr  bool
	}{
		{
			name:     "valid gemini",
			provider: "gemini",
			want:     ProviderGemini,
		},
		{
			name:     "mixed case",
			provider: " Gemini ",
			want:     ProviderGemini,
		},
		{
			name:     "openai",
			provider: "openai",
			want:     ProviderOpenAI,
		},
		{
			name:     "anthropic",
			provider: "Anthropic",
			want:     ProviderAnthropic,
		},
		{
			name:     "ollama",
			provider: "ollama",
			want:     ProviderOllama,
		},
		{
			name:     "invalid provider",
			provider: "bedrock",
			wantErr:  true,
		},
		{
			name:     "empty provider",
			provider: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateProvider(tt.provider)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProvider() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ValidateProvider() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewCompleter_MissingAPIKey(t *testing.T) {
	for _, p := range []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		t.Run(string(p), func(t *testing.T) {
			_, err := NewCompleter(context.Background(), Config{Provider: p, APIKey: "  "})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingAPIKey))
		})
	}
}

func TestNewCompleter_UnsupportedProvider(t *testing.T) {
	_, err := NewCompleter(context.Background(), Config{Provider: "bedrock", APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}

func TestCompleterFunc(t *testing.T) {
	var got Request
	c := CompleterFunc(func(_ context.Context, req Request) (string, error) {
		got = req
		return `{"ok":true}`, nil
	})

	text, err := c.Complete(context.Background(), Request{Prompt: "hi", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, "hi", got.Prompt)
	assert.Equal(t, "m", got.Model)
}

func TestDefaultModelForProvider(t *testing.T) {
	assert.Equal(t, DefaultGeminiModel, DefaultModelForProvider(ProviderGemini))
	assert.Equal(t, DefaultOpenAIModel, DefaultModelForProvider(ProviderOpenAI))
	assert.Equal(t, DefaultAnthropicModel, DefaultModelForProvider(ProviderAnthropic))
	assert.Equal(t, DefaultOllamaModel, DefaultModelForProvider(ProviderOllama))
	assert.Empty(t, DefaultModelForProvider("unknown"))
}
