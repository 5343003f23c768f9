package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/josephgoksu/zhice/internal/storage"
)

// AppConfig is the non-LLM application configuration.
type AppConfig struct {
	Language       string `mapstructure:"language" validate:"required"`
	StorageBackend string `mapstructure:"backend" validate:"required,oneof=file sqlite"`
	StoragePath    string `mapstructure:"path" validate:"required"`
	Verbose        bool   `mapstructure:"verbose"`
	JSON           bool   `mapstructure:"json"`
}

var appValidator = validator.New()

// SetDefaults registers default values with Viper.
func SetDefaults() {
	viper.SetDefault(KeyLLMProvider, "gemini")
	viper.SetDefault(KeyGenerationLanguage, DefaultLanguage)
	viper.SetDefault(KeyStorageBackend, DefaultStorageBackend)
}

// LoadAppConfig reads the application configuration from Viper and validates it.
func LoadAppConfig() (AppConfig, error) {
	cfg := AppConfig{
		Language:       strings.TrimSpace(viper.GetString(KeyGenerationLanguage)),
		StorageBackend: strings.ToLower(strings.TrimSpace(viper.GetString(KeyStorageBackend))),
		StoragePath:    GetDataPath(),
		Verbose:        viper.GetBool(KeyVerbose),
		JSON:           viper.GetBool(KeyJSON),
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = DefaultStorageBackend
	}
	if err := appValidator.Struct(cfg); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Backend returns the parsed storage backend.
func (c AppConfig) Backend() storage.Backend {
	b, err := storage.ParseBackend(c.StorageBackend)
	if err != nil {
		return storage.BackendFile
	}
	return b
}
