// Package planner turns a plan request into a structurally validated
// generation result. It owns the prompt, the response schema given to the
// completion service and the local validation of whatever comes back.
package planner

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"

	"github.com/josephgoksu/zhice/internal/plan"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validation for non-empty trimmed strings
	_ = validate.RegisterValidation("nonempty", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s != ""
	})
}

// llmPlanResponse mirrors the response schema with pointer fields so that a
// missing key can be told apart from an empty string. It is converted to
// plan.GeneratedPlanResponse only after validation.
type llmPlanResponse struct {
	Overview *string          `json:"overview" validate:"required"`
	Phases   []llmPhaseSchema `json:"phases" validate:"required,dive"`
}

type llmPhaseSchema struct {
	Title       *string         `json:"title" validate:"required"`
	Duration    *string         `json:"duration" validate:"required"`
	Description *string         `json:"description" validate:"required"`
	Tasks       []llmTaskSchema `json:"tasks" validate:"required,dive"`
}

type llmTaskSchema struct {
	Title       *string `json:"title" validate:"required"`
	Description *string `json:"description" validate:"required"`
	Tips        *string `json:"tips" validate:"required"`
}

// Validate checks the response against the schema rules.
func (r *llmPlanResponse) Validate() ValidationResult {
	return validateStruct(r)
}

func (r *llmPlanResponse) toGenerated() *plan.GeneratedPlanResponse {
	out := &plan.GeneratedPlanResponse{
		Overview: deref(r.Overview),
		Phases:   make([]plan.GeneratedPhase, len(r.Phases)),
	}
	for i, p := range r.Phases {
		phase := plan.GeneratedPhase{
			Title:       deref(p.Title),
			Duration:    deref(p.Duration),
			Description: deref(p.Description),
			Tasks:       make([]plan.GeneratedTask, len(p.Tasks)),
		}
		for j, t := range p.Tasks {
			phase.Tasks[j] = plan.GeneratedTask{
				Title:       deref(t.Title),
				Description: deref(t.Description),
				Tips:        deref(t.Tips),
			}
		}
		out.Phases[i] = phase
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ValidationError provides structured error information for schema validation failures
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationResult contains the result of schema validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// validateStruct is a helper that validates any struct and returns ValidationResult
func validateStruct(s any) ValidationResult {
	err := validate.Struct(s)
	if err == nil {
		return ValidationResult{Valid: true}
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationResult{Errors: []ValidationError{{Message: err.Error()}}}
	}

	var errors []ValidationError
	for _, err := range verrs {
		errors = append(errors, ValidationError{
			Field:   fieldPath(err),
			Tag:     err.Tag(),
			Value:   err.Value(),
			Message: formatValidationError(err),
		})
	}

	return ValidationResult{
		Valid:  false,
		Errors: errors,
	}
}

// fieldPath drops the root struct name: "llmPlanResponse.Phases[0].Title" -> "Phases[0].Title".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// formatValidationError creates a human-readable error message
func formatValidationError(err validator.FieldError) string {
	field := fieldPath(err)
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "nonempty":
		return fmt.Sprintf("%s cannot be empty or whitespace", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, err.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, err.Tag())
	}
}

// ErrorSummary returns a single string summarizing all validation errors
func (r ValidationResult) ErrorSummary() string {
	if r.Valid {
		return ""
	}
	var parts []string
	for _, e := range r.Errors {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}

// PlanSchema returns the structural constraint sent with every generation
// request. It must stay in sync with llmPlanResponse.
func PlanSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	task := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       str("Concrete task name."),
			"description": str("How to carry the task out."),
			"tips":        str("Advice or a recommended resource for the task."),
		},
		Required:         []string{"title", "description", "tips"},
		PropertyOrdering: []string{"title", "description", "tips"},
	}
	phase := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       str("Phase title, e.g. 'Foundations'."),
			"duration":    str("How long the phase lasts, e.g. 'Week 1'."),
			"description": str("Main objective of the phase."),
			"tasks": {
				Type:  genai.TypeArray,
				Items: task,
			},
		},
		Required:         []string{"title", "duration", "description", "tasks"},
		PropertyOrdering: []string{"title", "duration", "description", "tasks"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"overview": str("Short summary of the whole plan with a word of encouragement, 50-100 words."),
			"phases": {
				Type:        genai.TypeArray,
				Description: "The phases of the plan, in order.",
				Items:       phase,
			},
		},
		Required:         []string{"overview", "phases"},
		PropertyOrdering: []string{"overview", "phases"},
	}
}
