package llm

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

// GeminiCompleter is a thin wrapper around the official genai client.
// It only performs the API call; parsing and validation belong to the caller.
type GeminiCompleter struct {
	cli         *genai.Client
	model       string
	temperature *float32
}

// NewGeminiCompleter creates a Gemini API client. No request is sent.
func NewGeminiCompleter(ctx context.Context, cfg Config) (*GeminiCompleter, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiCompleter{cli: cli, model: model, temperature: cfg.Temperature}, nil
}

// Name identifies the backing model.
func (g *GeminiCompleter) Name() string { return "Gemini:" + g.model }

// Complete asks for application/json when a schema is given and returns the
// concatenated text parts of the first candidate. An empty string is returned
// as-is; deciding whether that is an error is the caller's job.
func (g *GeminiCompleter) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}

	cfg := &genai.GenerateContentConfig{Temperature: g.temperature}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}

	start := time.Now()
	resp, err := g.cli.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), cfg)
	if err != nil {
		slog.Debug("gemini request failed", "model", model, "duration", time.Since(start), "error", err)
		return "", err
	}
	text := resp.Text()
	slog.Debug("gemini request completed", "model", model, "duration", time.Since(start), "bytes", len(text))
	return text, nil
}
