package ui

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/zhice/internal/plan"
	"github.com/josephgoksu/zhice/internal/utils"
)

const (
	defaultRenderWidth = 80
	progressBarWidth   = 30
)

// ProgressBar renders a fixed-width bar for a percentage in [0,100].
func ProgressBar(percent, width int) string {
	if width <= 0 {
		width = progressBarWidth
	}
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if percent == 100 {
		return StyleSuccess.Render(bar)
	}
	return StylePrimary.Render(bar)
}

// TaskMarker is the checkbox shown in front of a task.
func TaskMarker(done bool) string {
	if done {
		return StyleSuccess.Render("[x]")
	}
	return StyleSubtle.Render("[ ]")
}

// RenderPlanHeader renders the goal, creation date and overall progress.
func RenderPlanHeader(p *plan.Plan) string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render("◆ "+p.Goal) + "\n")
	sb.WriteString(StyleSubtle.Render("  Created "+p.Created().Format("Jan 2, 2006")+" · "+utils.ShortID(p.ID, 0)) + "\n")

	pct := plan.ProgressPercentage(p)
	fmt.Fprintf(&sb, "  %s %3d%%  %s\n",
		ProgressBar(pct, progressBarWidth),
		pct,
		StyleSubtle.Render(fmt.Sprintf("%d/%d tasks", p.CompletedTasks, p.TotalTasks)))
	if plan.IsDone(p) {
		sb.WriteString("  " + StyleSuccess.Render("✓ All tasks complete") + "\n")
	}
	return sb.String()
}

// RenderPhaseTitle renders a phase heading with its position and progress.
func RenderPhaseTitle(i int, phase plan.Phase) string {
	done, total := plan.PhaseProgress(phase)
	title := fmt.Sprintf("Phase %d · %s", i+1, phase.Title)
	meta := phase.Duration
	if meta != "" {
		meta += " · "
	}
	meta += fmt.Sprintf("%d/%d", done, total)
	return StyleTitle.Render(title) + "  " + StyleSubtle.Render(meta)
}

// RenderPlan renders the whole plan as text for non-interactive output.
func RenderPlan(p *plan.Plan, width int) string {
	if p == nil {
		return StyleSubtle.Render("No active plan. Create one with `zhice new`.") + "\n"
	}
	if width <= 0 {
		width = defaultRenderWidth
	}
	inner := max(20, width-8)

	var sb strings.Builder
	sb.WriteString(RenderPlanHeader(p))
	sb.WriteString("\n")

	if strings.TrimSpace(p.Overview) != "" {
		sb.WriteString(StyleOverviewBox.Width(min(width-2, inner+4)).Render(p.Overview))
		sb.WriteString("\n\n")
	}

	for i, phase := range p.Phases {
		sb.WriteString(RenderPhaseTitle(i, phase) + "\n")
		for _, line := range wrap(phase.Description, inner) {
			if line != "" {
				sb.WriteString("  " + StyleSubtle.Render(line) + "\n")
			}
		}
		for j, t := range phase.Tasks {
			title := t.Title
			if t.IsCompleted {
				title = StyleCompleted.Render(title)
			}
			fmt.Fprintf(&sb, "  %s %d.%d %s\n", TaskMarker(t.IsCompleted), i+1, j+1, title)
			for _, line := range wrap(t.Description, inner-6) {
				if line != "" {
					sb.WriteString("        " + StyleText.Render(line) + "\n")
				}
			}
			if strings.TrimSpace(t.Tips) != "" {
				for k, line := range wrap("Tip: "+t.Tips, inner-6) {
					if k == 0 || line != "" {
						sb.WriteString("        " + StyleTip.Render(line) + "\n")
					}
				}
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
