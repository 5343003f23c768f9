// Package mcp provides types and handlers for the zhice MCP tools.
package mcp

// CreatePlanParams defines the parameters for the plan_create tool.
type CreatePlanParams struct {
	// Goal is what the user wants to achieve.
	// Required.
	Goal string `json:"goal"`

	// Duration is the total time available, free-form (e.g., "12 weeks").
	// Required.
	Duration string `json:"duration"`

	// Context describes the user's current situation or background.
	// Optional.
	Context string `json:"context,omitempty"`

	// Intensity is the desired pacing.
	// Optional. One of: relaxed, moderate, intense (default: moderate)
	Intensity string `json:"intensity,omitempty"`
}

// TogglePlanTaskParams defines the parameters for the plan_toggle tool.
// Positions are 1-based, matching the numbering in plan_show output.
type TogglePlanTaskParams struct {
	// Phase is the 1-based phase number.
	Phase int `json:"phase"`

	// Task is the 1-based task number within the phase.
	Task int `json:"task"`
}

// ResetPlanParams defines the parameters for the plan_reset tool.
type ResetPlanParams struct {
	// Confirm must be true; the plan and all progress are deleted.
	Confirm bool `json:"confirm"`
}

// ShowPlanParams defines the parameters for the plan_show tool.
type ShowPlanParams struct {
	// Format selects the output format.
	// Optional. One of: markdown, json, yaml (default: markdown)
	Format string `json:"format,omitempty"`
}

// ToolResult is the outcome of a tool handler. Error is set for failures the
// calling model should see and correct.
type ToolResult struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}
