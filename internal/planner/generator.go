package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/josephgoksu/zhice/internal/llm"
	"github.com/josephgoksu/zhice/internal/plan"
	"github.com/josephgoksu/zhice/internal/utils"
)

// GeneratorConfig configures the plan generator.
type GeneratorConfig struct {
	// Model overrides the completer's default model when set.
	Model string
	// Language is the language the model answers in. Defaults to English.
	Language string
}

// Generator produces validated plan skeletons from the completion service.
// It holds no state between calls.
type Generator struct {
	cfg       GeneratorConfig
	completer llm.Completer
}

// NewGenerator creates a generator on top of a completer.
func NewGenerator(completer llm.Completer, cfg GeneratorConfig) *Generator {
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	return &Generator{cfg: cfg, completer: completer}
}

// ParseResult is the outcome of reading a service response: either a
// Response or the reason it was rejected.
type ParseResult struct {
	Response *plan.GeneratedPlanResponse
	Invalid  error
}

// OK reports whether the response was accepted.
func (r ParseResult) OK() bool { return r.Invalid == nil && r.Response != nil }

// ParseResponse turns raw service output into a ParseResult. No field is
// read until the structural validation has passed.
func ParseResponse(text string) ParseResult {
	raw, err := utils.ExtractAndParseJSON[llmPlanResponse](text)
	if err != nil {
		return ParseResult{Invalid: err}
	}
	if result := raw.Validate(); !result.Valid {
		return ParseResult{Invalid: fmt.Errorf("schema validation: %s", result.ErrorSummary())}
	}
	return ParseResult{Response: raw.toGenerated()}
}

// ValidateForm normalizes and checks a plan request.
func ValidateForm(form plan.FormData) (plan.FormData, error) {
	intensity, err := plan.ParseIntensity(string(form.Intensity))
	if err != nil {
		return form, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	form.Intensity = intensity
	if result := validateStruct(&form); !result.Valid {
		return form, fmt.Errorf("%w: %s", ErrInvalidForm, result.ErrorSummary())
	}
	return form, nil
}

// Generate makes exactly one call to the completion service and returns the
// validated plan skeleton. Every failure after the form check is a
// *GenerationError.
func (g *Generator) Generate(ctx context.Context, form plan.FormData) (*plan.GeneratedPlanResponse, error) {
	form, err := ValidateForm(form)
	if err != nil {
		return nil, err
	}
	prompt, err := BuildPrompt(form, g.cfg.Language)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := g.completer.Complete(ctx, llm.Request{
		Prompt: prompt,
		Schema: PlanSchema(),
		Model:  g.cfg.Model,
	})
	if err != nil {
		slog.Warn("plan generation failed", "kind", KindServiceFailure, "error", err)
		return nil, &GenerationError{Kind: KindServiceFailure, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		slog.Warn("plan generation returned no content", "duration", time.Since(start))
		return nil, &GenerationError{Kind: KindEmptyResponse}
	}

	parsed := ParseResponse(text)
	if !parsed.OK() {
		slog.Warn("plan generation returned malformed content",
			"error", parsed.Invalid, "raw", utils.Truncate(text, 200))
		return nil, &GenerationError{Kind: KindMalformedResponse, Err: parsed.Invalid}
	}

	slog.Debug("plan generated",
		"phases", len(parsed.Response.Phases),
		"duration", time.Since(start))
	return parsed.Response, nil
}

// IsGenerationError reports whether err came from a generation attempt.
func IsGenerationError(err error) bool {
	var gerr *GenerationError
	return errors.As(err, &gerr)
}
