package llm

// Provider constants
const (
	// DefaultProvider is the default completion provider
	DefaultProvider = ProviderGemini

	// ProviderGemini represents the Google Gemini API
	ProviderGemini = "gemini"

	// ProviderOpenAI represents the OpenAI API
	ProviderOpenAI = "openai"

	// ProviderOllama represents a local Ollama server
	ProviderOllama = "ollama"

	// ProviderAnthropic represents the Anthropic API
	ProviderAnthropic = "anthropic"
)

// Default models per provider.
const (
	// DefaultGeminiModel is the default model for schema-constrained plan generation.
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultOpenAIModel    = "gpt-5-mini"
	DefaultAnthropicModel = "claude-3-5-sonnet-latest"
	DefaultOllamaModel    = "llama3.2"
)

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// API key environment variables. API_KEY is checked first for every provider.
const (
	EnvAPIKey          = "API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvGoogleAPIKey    = "GOOGLE_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// DefaultModelForProvider returns the default model ID for a given provider.
func DefaultModelForProvider(provider string) string {
	switch provider {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	case ProviderOllama:
		return DefaultOllamaModel
	default:
		return ""
	}
}
