/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/josephgoksu/zhice/internal/plan"
	"github.com/josephgoksu/zhice/internal/planner"
	"github.com/josephgoksu/zhice/internal/storage"
	"github.com/josephgoksu/zhice/internal/telemetry"
)

// DefaultStorageKey is the slot the active plan is persisted under.
const DefaultStorageKey = "zhice_user_plan_v1"

// PlanGenerator produces a validated plan skeleton from a form.
// *planner.Generator is the production implementation.
type PlanGenerator interface {
	Generate(ctx context.Context, form plan.FormData) (*plan.GeneratedPlanResponse, error)
}

// PlanApp owns the single active plan and keeps the store in sync with it.
// This is THE implementation - CLI, TUI and MCP all call these methods.
type PlanApp struct {
	gen   PlanGenerator
	store storage.Store
	key   string
	now   func() time.Time
	newID func() string
	// events receives usage events; nil disables tracking.
	events EventSink

	mu      sync.Mutex
	current *plan.Plan
	loading bool
	lastErr string
	// epoch advances on every commit and reset; a generation only commits
	// if the epoch it started under is still current.
	epoch uint64
	// seen is the stored value this process last read or wrote. A different
	// value at mutation time means another process changed the plan.
	seen     string
	seenSome bool
}

// Option configures a PlanApp.
type Option func(*PlanApp)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *PlanApp) { a.now = now }
}

// WithIDGenerator overrides plan id allocation.
func WithIDGenerator(newID func() string) Option {
	return func(a *PlanApp) { a.newID = newID }
}

// EventSink receives anonymous usage events. telemetry.Client implements it.
type EventSink interface {
	Track(event string, properties map[string]any)
}

// WithEvents sends usage events to sink.
func WithEvents(sink EventSink) Option {
	return func(a *PlanApp) { a.events = sink }
}

// WithStorageKey overrides the storage key.
func WithStorageKey(key string) Option {
	return func(a *PlanApp) { a.key = key }
}

// NewPlanApp creates the plan manager. Call Load to restore persisted state.
func NewPlanApp(gen PlanGenerator, store storage.Store, opts ...Option) *PlanApp {
	a := &PlanApp{
		gen:   gen,
		store: store,
		key:   DefaultStorageKey,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load restores the active plan from storage. Data that cannot be read back
// as a plan is deleted and the app continues with no plan.
func (a *PlanApp) Load() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.refreshLocked()
	return err
}

// refreshLocked re-reads the store and adopts its value when it differs from
// what this process last saw. It reports whether the plan was replaced.
// The caller holds a.mu.
func (a *PlanApp) refreshLocked() (bool, error) {
	raw, ok, err := a.store.Get(a.key)
	if err != nil {
		return false, fmt.Errorf("load plan: %w", err)
	}
	if ok == a.seenSome && raw == a.seen {
		return false, nil
	}
	a.seen, a.seenSome = raw, ok
	if !ok {
		a.current = nil
		return true, nil
	}

	p, err := plan.Unmarshal([]byte(raw))
	if err != nil {
		slog.Warn("discarding corrupt stored plan", "key", a.key, "error", err)
		a.current = nil
		if derr := a.store.Delete(a.key); derr != nil {
			slog.Warn("failed to delete corrupt stored plan", "key", a.key, "error", derr)
		} else {
			a.seen, a.seenSome = "", false
		}
		return true, nil
	}
	a.current = p
	slog.Debug("plan restored", "id", p.ID, "tasks", p.TotalTasks, "completed", p.CompletedTasks)
	return true, nil
}

// lockStore takes the store's cross-process lock when it has one.
func (a *PlanApp) lockStore() (func(), error) {
	l, ok := a.store.(storage.Locker)
	if !ok {
		return func() {}, nil
	}
	unlock, err := l.Lock()
	if err != nil {
		return nil, fmt.Errorf("lock plan store: %w", err)
	}
	return unlock, nil
}

// syncLocked brings the in-memory plan up to date with the store before a
// mutation. It returns ErrSuperseded when the stored plan is no longer the
// one identified by wantID (a reset or new plan in another process).
// The caller holds a.mu and the store lock.
func (a *PlanApp) syncLocked(wantID string) error {
	if _, err := a.refreshLocked(); err != nil {
		return err
	}
	if planID(a.current) != wantID {
		slog.Info("stored plan changed in another process", "expected", wantID, "found", planID(a.current))
		return ErrSuperseded
	}
	return nil
}

func planID(p *plan.Plan) string {
	if p == nil {
		return ""
	}
	return p.ID
}

// Create generates a new plan and replaces the active one. A failed
// generation leaves the previous plan untouched. The result is discarded with
// ErrSuperseded when the plan was reset or replaced meanwhile, here or in
// another process. The returned plan is a copy.
func (a *PlanApp) Create(ctx context.Context, form plan.FormData) (*plan.Plan, error) {
	form, err := planner.ValidateForm(form)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	if a.loading {
		a.mu.Unlock()
		return nil, ErrGenerationInProgress
	}
	unlock, err := a.lockStore()
	if err == nil {
		_, err = a.refreshLocked()
		unlock()
	}
	if err != nil {
		a.mu.Unlock()
		return nil, err
	}
	a.loading = true
	a.lastErr = ""
	started := a.epoch
	startedID := planID(a.current)
	a.mu.Unlock()

	resp, genErr := a.gen.Generate(ctx, form)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = false

	if a.epoch != started {
		slog.Info("discarding late generation result", "started_epoch", started, "epoch", a.epoch)
		return nil, ErrSuperseded
	}
	if genErr != nil {
		a.lastErr = genErr.Error()
		kind := "other"
		if k := planner.KindOf(genErr); k != 0 {
			kind = k.String()
		}
		a.track(telemetry.EventPlanFailed, map[string]any{"error_kind": kind})
		return nil, genErr
	}

	unlock, err = a.lockStore()
	if err != nil {
		return nil, err
	}
	defer unlock()
	if err := a.syncLocked(startedID); err != nil {
		return nil, err
	}

	p := plan.New(a.newID(), form.Goal, a.now(), resp)
	a.current = p
	a.epoch++
	slog.Info("plan created", "id", p.ID, "phases", len(p.Phases), "tasks", p.TotalTasks)
	a.track(telemetry.EventPlanCreated, map[string]any{
		"intensity": string(form.Intensity),
		"phases":    len(p.Phases),
		"tasks":     p.TotalTasks,
	})

	if err := a.persistLocked("create"); err != nil {
		return p.Clone(), err
	}
	return p.Clone(), nil
}

// Toggle flips the completion flag of one task in the active plan.
func (a *PlanApp) Toggle(phaseIndex, taskIndex int) (*plan.Plan, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	unlock, err := a.lockStore()
	if err != nil {
		return nil, err
	}
	defer unlock()
	if err := a.syncLocked(planID(a.current)); err != nil {
		a.lastErr = err.Error()
		return nil, err
	}

	if a.current == nil {
		return nil, ErrNoActivePlan
	}
	next, err := plan.Toggle(a.current, phaseIndex, taskIndex)
	if err != nil {
		return nil, err
	}
	a.current = next
	a.lastErr = ""
	a.track(telemetry.EventTaskToggled, map[string]any{
		"completed": next.Phases[phaseIndex].Tasks[taskIndex].IsCompleted,
		"progress":  plan.ProgressPercentage(next),
	})

	if err := a.persistLocked("toggle"); err != nil {
		return next.Clone(), err
	}
	return next.Clone(), nil
}

// Reset discards the active plan and clears persisted state. Resetting with
// no plan is a no-op apart from clearing the store.
func (a *PlanApp) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	hadPlan := a.current != nil
	a.current = nil
	a.lastErr = ""
	a.epoch++

	unlock, err := a.lockStore()
	if err != nil {
		return err
	}
	defer unlock()
	if err := a.store.Delete(a.key); err != nil {
		perr := &PersistenceError{Op: "reset", Err: err}
		a.lastErr = perr.Error()
		return perr
	}
	a.seen, a.seenSome = "", false
	if hadPlan {
		slog.Info("plan reset")
		a.track(telemetry.EventPlanReset, nil)
	}
	return nil
}

// State returns a snapshot for rendering. Reads are never blocked by an
// in-flight generation.
func (a *PlanApp) State() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return View{
		Plan:    a.current.Clone(),
		Loading: a.loading,
		Error:   a.lastErr,
	}
}

// Current returns a copy of the active plan, or nil.
func (a *PlanApp) Current() *plan.Plan {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current.Clone()
}

// persistLocked writes the active plan. The caller holds a.mu and the store lock.
func (a *PlanApp) persistLocked(op string) error {
	data, err := plan.Marshal(a.current)
	if err == nil {
		err = a.store.Set(a.key, string(data))
	}
	if err == nil {
		a.seen, a.seenSome = string(data), true
	}
	if err != nil {
		perr := &PersistenceError{Op: op, Err: err}
		a.lastErr = perr.Error()
		slog.Warn("plan persistence failed", "op", op, "error", err)
		a.track(telemetry.EventPersistenceError, map[string]any{"op": op})
		return perr
	}
	return nil
}

func (a *PlanApp) track(event string, props map[string]any) {
	if a.events != nil {
		a.events.Track(event, props)
	}
}

// IsPersistenceError reports whether err is a storage write failure.
func IsPersistenceError(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}
