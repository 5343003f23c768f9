package mcp

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/zhice/internal/plan"
	"github.com/josephgoksu/zhice/internal/utils"
)

// FormatPlan converts a Plan into concise Markdown.
func FormatPlan(p *plan.Plan) string {
	if p == nil {
		return "No active plan. Use `plan_create` to generate one."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Plan: %s\n", p.Goal)
	fmt.Fprintf(&sb, "**ID**: `%s` | **Created**: %s | **Progress**: %d%% (%d/%d tasks)\n\n",
		utils.ShortID(p.ID, 0), p.Created().Format("2006-01-02"), plan.ProgressPercentage(p), p.CompletedTasks, p.TotalTasks)

	if strings.TrimSpace(p.Overview) != "" {
		sb.WriteString(p.Overview + "\n\n")
	}

	for i, phase := range p.Phases {
		done, total := plan.PhaseProgress(phase)
		fmt.Fprintf(&sb, "### Phase %d: %s", i+1, phase.Title)
		if phase.Duration != "" {
			fmt.Fprintf(&sb, " (%s)", phase.Duration)
		}
		fmt.Fprintf(&sb, " - %d/%d\n", done, total)
		if phase.Description != "" {
			sb.WriteString(phase.Description + "\n")
		}
		for j, t := range phase.Tasks {
			checkbox := "[ ]"
			if t.IsCompleted {
				checkbox = "[x]"
			}
			fmt.Fprintf(&sb, "- %s **%d.%d** %s", checkbox, i+1, j+1, t.Title)
			if t.Description != "" {
				fmt.Fprintf(&sb, ": %s", t.Description)
			}
			sb.WriteString("\n")
			if t.Tips != "" {
				fmt.Fprintf(&sb, "  - Tip: %s\n", t.Tips)
			}
		}
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String())
}

// FormatToggle reports the new state of a toggled task.
func FormatToggle(p *plan.Plan, phase, task int) string {
	t := p.Phases[phase].Tasks[task]
	state := "not done"
	if t.IsCompleted {
		state = "done"
	}
	return fmt.Sprintf("Task %d.%d **%s** marked %s. Progress: %d%% (%d/%d tasks).",
		phase+1, task+1, t.Title, state, plan.ProgressPercentage(p), p.CompletedTasks, p.TotalTasks)
}

// === Error Formatters ===

// FormatError returns a standardized Markdown error message.
func FormatError(message string) string {
	return fmt.Sprintf("## Error\n\n**Details**: %s", message)
}

// FormatValidationError returns a Markdown error for validation failures.
func FormatValidationError(field, message string) string {
	return fmt.Sprintf("## Validation Error\n\n**Field**: `%s`\n**Details**: %s", field, message)
}
