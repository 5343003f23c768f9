// Package plan holds the durable plan tree and the pure operations on it.
package plan

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Intensity is the pacing the user asked for when describing a goal.
type Intensity string

const (
	IntensityRelaxed  Intensity = "relaxed"
	IntensityModerate Intensity = "moderate"
	IntensityIntense  Intensity = "intense"
)

// DefaultIntensity is used when a form leaves intensity empty.
const DefaultIntensity = IntensityModerate

// Intensities lists the accepted intensity values in display order.
var Intensities = []Intensity{IntensityRelaxed, IntensityModerate, IntensityIntense}

// ParseIntensity normalizes user input into an Intensity.
func ParseIntensity(s string) (Intensity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultIntensity, nil
	}
	for _, in := range Intensities {
		if string(in) == s {
			return in, nil
		}
	}
	return "", fmt.Errorf("unknown intensity %q (expected relaxed, moderate or intense)", s)
}

// ErrIndexOutOfRange is returned when a phase or task index does not address a task.
var ErrIndexOutOfRange = errors.New("task index out of range")

// FormData is the user's request for a new plan. It is consumed once.
type FormData struct {
	Goal      string    `json:"goal" validate:"required,nonempty"`
	Duration  string    `json:"duration" validate:"required,nonempty"`
	Context   string    `json:"context,omitempty"`
	Intensity Intensity `json:"intensity" validate:"required,oneof=relaxed moderate intense"`
}

// GeneratedTask is a task as returned by the completion service.
type GeneratedTask struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Tips        string `json:"tips" yaml:"tips"`
}

// GeneratedPhase is a phase as returned by the completion service.
type GeneratedPhase struct {
	Title       string          `json:"title" yaml:"title"`
	Duration    string          `json:"duration" yaml:"duration"`
	Description string          `json:"description" yaml:"description"`
	Tasks       []GeneratedTask `json:"tasks" yaml:"tasks"`
}

// GeneratedPlanResponse is the structurally validated service output.
// It carries no identifiers and no completion flags.
type GeneratedPlanResponse struct {
	Overview string           `json:"overview" yaml:"overview"`
	Phases   []GeneratedPhase `json:"phases" yaml:"phases"`
}

// Task is an atomic unit of work. IsCompleted is the only field that changes
// after creation.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Tips        string `json:"tips" yaml:"tips"`
	IsCompleted bool   `json:"isCompleted" yaml:"isCompleted"`
}

// Phase is a time-bounded segment of a plan. Task order is fixed at creation.
type Phase struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Duration    string `json:"duration" yaml:"duration"`
	Description string `json:"description" yaml:"description"`
	Tasks       []Task `json:"tasks" yaml:"tasks"`
}

// Plan is the root of the tree. TotalTasks and CompletedTasks are derived and
// must always match the tree; use Recount after any change.
type Plan struct {
	ID             string  `json:"id" yaml:"id"`
	Goal           string  `json:"goal" yaml:"goal"`
	CreatedAt      int64   `json:"createdAt" yaml:"createdAt"` // unix milliseconds
	Overview       string  `json:"overview" yaml:"overview"`
	Phases         []Phase `json:"phases" yaml:"phases"`
	TotalTasks     int     `json:"totalTasks" yaml:"totalTasks"`
	CompletedTasks int     `json:"completedTasks" yaml:"completedTasks"`
}

// PhaseID returns the positional identifier of the phase at index i.
func PhaseID(i int) string {
	return fmt.Sprintf("phase-%d", i)
}

// TaskID returns the positional identifier of task j in phase i.
func TaskID(i, j int) string {
	return fmt.Sprintf("task-%d-%d", i, j)
}

// New builds a plan from a generation result. Every task starts incomplete and
// identifiers follow response order.
func New(id, goal string, createdAt time.Time, resp *GeneratedPlanResponse) *Plan {
	p := &Plan{
		ID:        id,
		Goal:      goal,
		CreatedAt: createdAt.UnixMilli(),
		Phases:    make([]Phase, 0),
	}
	if resp == nil {
		return p
	}
	p.Overview = resp.Overview
	p.Phases = make([]Phase, len(resp.Phases))
	for i, gp := range resp.Phases {
		phase := Phase{
			ID:          PhaseID(i),
			Title:       gp.Title,
			Duration:    gp.Duration,
			Description: gp.Description,
			Tasks:       make([]Task, len(gp.Tasks)),
		}
		for j, gt := range gp.Tasks {
			phase.Tasks[j] = Task{
				ID:          TaskID(i, j),
				Title:       gt.Title,
				Description: gt.Description,
				Tips:        gt.Tips,
			}
		}
		p.Phases[i] = phase
	}
	p.Recount()
	return p
}

// Recount recomputes the aggregate counters with a full scan of the tree.
func (p *Plan) Recount() {
	total, completed := 0, 0
	for _, phase := range p.Phases {
		for _, t := range phase.Tasks {
			total++
			if t.IsCompleted {
				completed++
			}
		}
	}
	p.TotalTasks = total
	p.CompletedTasks = completed
}

// Clone returns a deep copy of the plan.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Phases == nil {
		return &cp
	}
	cp.Phases = make([]Phase, len(p.Phases))
	for i, phase := range p.Phases {
		cp.Phases[i] = phase
		if phase.Tasks != nil {
			cp.Phases[i].Tasks = make([]Task, len(phase.Tasks))
			copy(cp.Phases[i].Tasks, phase.Tasks)
		}
	}
	return &cp
}

// Created returns the creation time.
func (p *Plan) Created() time.Time {
	return time.UnixMilli(p.CreatedAt)
}

// Validate checks the tree for structural problems that would break the
// counters or identifier invariants. It is used on plans restored from storage.
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("plan id required")
	}
	seen := make(map[string]struct{})
	for i, phase := range p.Phases {
		if phase.ID == "" {
			return fmt.Errorf("phase %d: id required", i)
		}
		if _, dup := seen[phase.ID]; dup {
			return fmt.Errorf("duplicate id %q", phase.ID)
		}
		seen[phase.ID] = struct{}{}
		for j, t := range phase.Tasks {
			if t.ID == "" {
				return fmt.Errorf("phase %d task %d: id required", i, j)
			}
			if _, dup := seen[t.ID]; dup {
				return fmt.Errorf("duplicate id %q", t.ID)
			}
			seen[t.ID] = struct{}{}
		}
	}
	return nil
}
