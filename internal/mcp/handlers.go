package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/josephgoksu/zhice/internal/app"
	"github.com/josephgoksu/zhice/internal/plan"
	"github.com/josephgoksu/zhice/internal/planner"
)

// PlanService is the subset of app.PlanApp the tools call.
type PlanService interface {
	Create(ctx context.Context, form plan.FormData) (*plan.Plan, error)
	Toggle(phaseIndex, taskIndex int) (*plan.Plan, error)
	Reset() error
	State() app.View
	// Load re-reads the stored plan, picking up changes made by other
	// processes sharing the store.
	Load() error
}

func validationResult(field, msg string) *ToolResult {
	return &ToolResult{Error: FormatValidationError(field, msg)}
}

// HandleCreate generates a new plan, replacing the active one.
func HandleCreate(ctx context.Context, svc PlanService, params CreatePlanParams) (*ToolResult, error) {
	if strings.TrimSpace(params.Goal) == "" {
		return validationResult("goal", "goal is required"), nil
	}
	if strings.TrimSpace(params.Duration) == "" {
		return validationResult("duration", "duration is required (e.g. \"12 weeks\")"), nil
	}
	intensity, err := plan.ParseIntensity(params.Intensity)
	if err != nil {
		return validationResult("intensity", err.Error()), nil
	}

	p, err := svc.Create(ctx, plan.FormData{
		Goal:      params.Goal,
		Duration:  params.Duration,
		Context:   params.Context,
		Intensity: intensity,
	})
	switch {
	case err == nil:
		return &ToolResult{Content: FormatPlan(p)}, nil
	case app.IsPersistenceError(err) && p != nil:
		return &ToolResult{Content: FormatPlan(p) + "\n\n> Warning: " + err.Error()}, nil
	case errors.Is(err, planner.ErrInvalidForm),
		errors.Is(err, app.ErrGenerationInProgress),
		errors.Is(err, app.ErrSuperseded),
		planner.IsGenerationError(err):
		return &ToolResult{Error: FormatError(err.Error())}, nil
	default:
		return nil, fmt.Errorf("create plan: %w", err)
	}
}

// HandleToggle flips one task. Phase and task are 1-based.
func HandleToggle(svc PlanService, params TogglePlanTaskParams) (*ToolResult, error) {
	if params.Phase < 1 {
		return validationResult("phase", "phase must be 1 or greater"), nil
	}
	if params.Task < 1 {
		return validationResult("task", "task must be 1 or greater"), nil
	}

	p, err := svc.Toggle(params.Phase-1, params.Task-1)
	switch {
	case err == nil:
		return &ToolResult{Content: FormatToggle(p, params.Phase-1, params.Task-1)}, nil
	case app.IsPersistenceError(err) && p != nil:
		return &ToolResult{Content: FormatToggle(p, params.Phase-1, params.Task-1) + "\n\n> Warning: " + err.Error()}, nil
	case errors.Is(err, plan.ErrIndexOutOfRange):
		return validationResult("task", fmt.Sprintf("no task %d.%d in the active plan", params.Phase, params.Task)), nil
	case errors.Is(err, app.ErrNoActivePlan):
		return &ToolResult{Error: FormatError("no active plan; use plan_create first")}, nil
	case errors.Is(err, app.ErrSuperseded):
		return &ToolResult{Error: FormatError("the plan changed in another session; run plan_show and try again")}, nil
	default:
		return nil, fmt.Errorf("toggle task: %w", err)
	}
}

// HandleReset deletes the active plan when confirmed.
func HandleReset(svc PlanService, params ResetPlanParams) (*ToolResult, error) {
	if !params.Confirm {
		return validationResult("confirm", "set confirm=true to delete the plan and all progress"), nil
	}
	if err := svc.Reset(); err != nil {
		if app.IsPersistenceError(err) {
			return &ToolResult{Error: FormatError(err.Error())}, nil
		}
		return nil, fmt.Errorf("reset plan: %w", err)
	}
	return &ToolResult{Content: "Plan deleted. Use `plan_create` to start a new one."}, nil
}

// HandleShow renders the active plan.
func HandleShow(svc PlanService, params ShowPlanParams) (*ToolResult, error) {
	format := strings.ToLower(strings.TrimSpace(params.Format))
	switch format {
	case "", "markdown", "md", plan.FormatJSON, plan.FormatYAML:
	default:
		return validationResult("format", "format must be one of: markdown, json, yaml"), nil
	}
	if err := svc.Load(); err != nil {
		return nil, fmt.Errorf("show plan: %w", err)
	}

	view := svc.State()
	switch format {
	case "", "markdown", "md":
		content := FormatPlan(view.Plan)
		if view.Loading {
			content += "\n\n_A new plan is being generated._"
		}
		return &ToolResult{Content: content}, nil
	default:
		if view.Plan == nil {
			return &ToolResult{Content: FormatPlan(nil)}, nil
		}
		data, err := plan.Export(view.Plan, format)
		if err != nil {
			return nil, fmt.Errorf("export plan: %w", err)
		}
		return &ToolResult{Content: string(data)}, nil
	}
}
