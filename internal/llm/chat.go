package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// claudeMaxTokens caps a plan reply; the Messages API requires a limit.
const claudeMaxTokens = 8192

// NewChatModel creates an Eino chat model for the providers that have no
// native response-schema support in this package.
func NewChatModel(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, fmt.Errorf("openai: %w (set %s or %s)", ErrMissingAPIKey, EnvAPIKey, EnvOpenAIAPIKey)
		}
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
		})

	case ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   cfg.Model,
		})

	case ProviderAnthropic:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, fmt.Errorf("anthropic: %w (set %s or %s)", ErrMissingAPIKey, EnvAPIKey, EnvAnthropicAPIKey)
		}
		return claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: claudeMaxTokens,
		})

	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", cfg.Provider)
	}
}

// ChatCompleter sends one request through an Eino chat model. The schema is
// carried as a system instruction, since these providers have no shared
// structured-output field.
type ChatCompleter struct {
	chat        model.BaseChatModel
	name        string
	temperature *float32
}

// NewChatCompleter wraps chat. name is used only in logs.
func NewChatCompleter(chat model.BaseChatModel, name string, temperature *float32) *ChatCompleter {
	return &ChatCompleter{chat: chat, name: name, temperature: temperature}
}

// Name identifies the backing model.
func (c *ChatCompleter) Name() string { return c.name }

// Complete makes a single Generate call and returns the reply content.
func (c *ChatCompleter) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]*schema.Message, 0, 2)
	if req.Schema != nil {
		instruction, err := schemaInstruction(req.Schema)
		if err != nil {
			return "", err
		}
		messages = append(messages, schema.SystemMessage(instruction))
	}
	messages = append(messages, schema.UserMessage(req.Prompt))

	var opts []model.Option
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	if c.temperature != nil {
		opts = append(opts, model.WithTemperature(*c.temperature))
	}

	start := time.Now()
	resp, err := c.chat.Generate(ctx, messages, opts...)
	if err != nil {
		slog.Debug("chat request failed", "model", c.name, "duration", time.Since(start), "error", err)
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	slog.Debug("chat request completed", "model", c.name, "duration", time.Since(start), "bytes", len(resp.Content))
	return resp.Content, nil
}

func schemaInstruction(s *genai.Schema) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode response schema: %w", err)
	}
	return "Respond with a single JSON value and nothing else: no markdown, no commentary. " +
		"The value must match this JSON schema:\n" + string(data), nil
}
