// Package app provides the application layer that owns the active plan.
// CLI, TUI and MCP handlers are thin adapters over PlanApp.
package app

import (
	"errors"
	"fmt"

	"github.com/josephgoksu/zhice/internal/plan"
)

var (
	// ErrGenerationInProgress is returned when Create is called while another
	// generation has not resolved yet.
	ErrGenerationInProgress = errors.New("a plan is already being generated")

	// ErrSuperseded is returned when a generation result arrives after a reset
	// or a newer plan, and is discarded.
	ErrSuperseded = errors.New("generation result discarded: plan state changed while generating")

	// ErrNoActivePlan is returned by operations that need a plan when none exists.
	ErrNoActivePlan = errors.New("no active plan")
)

// PersistenceError reports a failed write to the plan store. The in-memory
// state already reflects the mutation when this is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("plan %s not persisted: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// View is what the presentation layer renders.
type View struct {
	Plan    *plan.Plan `json:"plan"`
	Loading bool       `json:"loading"`
	Error   string     `json:"error,omitempty"`
}

// Progress returns the completion percentage of the viewed plan.
func (v View) Progress() int {
	return plan.ProgressPercentage(v.Plan)
}
