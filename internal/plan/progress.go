package plan

import (
	"fmt"
	"math"
)

// Toggle flips the completion flag of one task and returns the resulting plan.
// The input plan is not modified. Counters are recomputed from the tree rather
// than adjusted, so a plan restored with drifted counters is repaired here.
func Toggle(p *Plan, phaseIndex, taskIndex int) (*Plan, error) {
	if p == nil {
		return nil, fmt.Errorf("toggle: %w", ErrIndexOutOfRange)
	}
	if phaseIndex < 0 || phaseIndex >= len(p.Phases) {
		return nil, fmt.Errorf("phase %d of %d: %w", phaseIndex, len(p.Phases), ErrIndexOutOfRange)
	}
	tasks := p.Phases[phaseIndex].Tasks
	if taskIndex < 0 || taskIndex >= len(tasks) {
		return nil, fmt.Errorf("task %d of %d in phase %d: %w", taskIndex, len(tasks), phaseIndex, ErrIndexOutOfRange)
	}

	next := p.Clone()
	task := &next.Phases[phaseIndex].Tasks[taskIndex]
	task.IsCompleted = !task.IsCompleted
	next.Recount()
	return next, nil
}

// ProgressPercentage returns round(100 * completed / total). A plan without
// tasks is 0% complete.
func ProgressPercentage(p *Plan) int {
	if p == nil || p.TotalTasks == 0 {
		return 0
	}
	return int(math.Round(100 * float64(p.CompletedTasks) / float64(p.TotalTasks)))
}

// PhaseProgress returns completed and total task counts for one phase.
func PhaseProgress(phase Phase) (completed, total int) {
	for _, t := range phase.Tasks {
		if t.IsCompleted {
			completed++
		}
	}
	return completed, len(phase.Tasks)
}

// IsDone reports whether every task in the plan is complete.
func IsDone(p *Plan) bool {
	return p != nil && p.TotalTasks > 0 && p.CompletedTasks == p.TotalTasks
}
