// Package config provides centralized configuration for zhice.
// All default values should be defined here to ensure a single source of truth.
package config

// Application identity.
const (
	AppName   = "zhice"
	EnvPrefix = "ZHICE"
)

// PlanStorageKey is the key the current plan is persisted under.
const PlanStorageKey = "zhice_user_plan_v1"

// Configuration keys.
const (
	KeyLLMProvider        = "llm.provider"
	KeyLLMModel           = "llm.model"
	KeyLLMAPIKey          = "llm.apiKey"
	KeyLLMTemperature     = "llm.temperature"
	KeyLLMBaseURL         = "llm.baseURL"
	KeyGenerationLanguage = "generation.language"
	KeyStorageBackend     = "storage.backend"
	KeyStoragePath        = "storage.path"
	KeyTelemetryAPIKey    = "telemetry.apiKey"
	KeyTelemetryEndpoint  = "telemetry.endpoint"
	KeyVerbose            = "verbose"
	KeyJSON               = "json"
)

// Defaults.
const (
	DefaultLanguage       = "English"
	DefaultStorageBackend = "file"
)
