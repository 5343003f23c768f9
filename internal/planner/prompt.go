package planner

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/josephgoksu/zhice/internal/plan"
)

// DefaultLanguage is the language the model is asked to answer in.
const DefaultLanguage = "English"

// intensityQualifiers conditions the prompt on the requested pacing.
var intensityQualifiers = map[plan.Intensity]string{
	plan.IntensityRelaxed:  "gradual, low-pressure pacing",
	plan.IntensityModerate: "balanced with daily life",
	plan.IntensityIntense:  "maximum-effort, accelerated",
}

// IntensityQualifier maps an intensity to its prompt wording.
func IntensityQualifier(in plan.Intensity) (string, bool) {
	q, ok := intensityQualifiers[in]
	return q, ok
}

const planPromptTemplate = `Create a detailed, phased plan that helps me reach the goal below.

Goal: {{.Goal}}
Total duration: {{.Duration}}
Background / current situation: {{if .Context}}{{.Context}}{{else}}(none given){{end}}
Desired intensity: {{.Intensity}}

Break the plan into clear, sequential phases that fit the total duration.
Every phase must contain concrete, actionable tasks; each task must be specific and measurable.
For every task give a short description of how to do it and one practical tip or resource.
Start with a brief overview of the whole plan.

Respond only with JSON that matches the provided response schema, not with free text.
Write all text values in {{.Language}}.
`

var planPrompt = template.Must(template.New("plan").Parse(planPromptTemplate))

// BuildPrompt renders the generation instruction for a validated form.
func BuildPrompt(form plan.FormData, language string) (string, error) {
	qualifier, ok := IntensityQualifier(form.Intensity)
	if !ok {
		return "", fmt.Errorf("%w: unknown intensity %q", ErrInvalidForm, form.Intensity)
	}
	if strings.TrimSpace(language) == "" {
		language = DefaultLanguage
	}

	var buf bytes.Buffer
	err := planPrompt.Execute(&buf, map[string]any{
		"Goal":      strings.TrimSpace(form.Goal),
		"Duration":  strings.TrimSpace(form.Duration),
		"Context":   strings.TrimSpace(form.Context),
		"Intensity": qualifier,
		"Language":  language,
	})
	if err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}
