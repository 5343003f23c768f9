package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/josephgoksu/zhice/internal/llm"
)

// LoadLLMConfig loads LLM configuration from Viper and Environment variables.
// Precedence: explicit Viper config > environment variables > defaults.
// A missing API key is not an error here; the completer reports it when built.
func LoadLLMConfig() (llm.Config, error) {
	provider := viper.GetString(KeyLLMProvider)
	if provider == "" {
		provider = llm.DefaultProvider
	}

	llmProvider, err := llm.ValidateProvider(provider)
	if err != nil {
		return llm.Config{}, fmt.Errorf("invalid provider: %w", err)
	}

	model := viper.GetString(KeyLLMModel)
	if model == "" {
		model = llm.DefaultModelForProvider(string(llmProvider))
	}

	cfg := llm.Config{
		Provider: llmProvider,
		Model:    model,
		APIKey:   ResolveAPIKey(llmProvider),
		BaseURL:  strings.TrimSpace(viper.GetString(KeyLLMBaseURL)),
	}
	if viper.IsSet(KeyLLMTemperature) {
		temp := float32(viper.GetFloat64(KeyLLMTemperature))
		if temp < 0 || temp > 2 {
			return llm.Config{}, fmt.Errorf("%s must be between 0 and 2, got %v", KeyLLMTemperature, temp)
		}
		cfg.Temperature = &temp
	}
	return cfg, nil
}

// ResolveAPIKey returns the best API key for the given provider using the
// config key first, then API_KEY, then the provider-specific env vars.
func ResolveAPIKey(provider llm.Provider) string {
	if viper.IsSet(KeyLLMAPIKey) {
		if key := strings.TrimSpace(viper.GetString(KeyLLMAPIKey)); key != "" {
			return key
		}
	}
	if key := strings.TrimSpace(os.Getenv(llm.EnvAPIKey)); key != "" {
		return key
	}
	return providerEnvKey(provider)
}

func providerEnvKey(provider llm.Provider) string {
	switch provider {
	case llm.ProviderGemini:
		key := strings.TrimSpace(os.Getenv(llm.EnvGeminiAPIKey))
		if key == "" {
			key = strings.TrimSpace(os.Getenv(llm.EnvGoogleAPIKey))
		}
		return key
	case llm.ProviderOpenAI:
		return strings.TrimSpace(os.Getenv(llm.EnvOpenAIAPIKey))
	case llm.ProviderAnthropic:
		return strings.TrimSpace(os.Getenv(llm.EnvAnthropicAPIKey))
	default:
		return ""
	}
}
