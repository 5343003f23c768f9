package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/zhice/internal/llm"
	"github.com/josephgoksu/zhice/internal/plan"
	"github.com/josephgoksu/zhice/internal/planner"
	"github.com/josephgoksu/zhice/internal/storage"
	"github.com/josephgoksu/zhice/internal/telemetry"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func scenarioForm() plan.FormData {
	return plan.FormData{
		Goal:      "Learn data analysis",
		Duration:  "12 weeks",
		Context:   "",
		Intensity: plan.IntensityModerate,
	}
}

func scenarioResponse() *plan.GeneratedPlanResponse {
	task := func(n string) plan.GeneratedTask {
		return plan.GeneratedTask{Title: n, Description: n + " desc", Tips: n + " tip"}
	}
	return &plan.GeneratedPlanResponse{
		Overview: "You can do this.",
		Phases: []plan.GeneratedPhase{
			{Title: "Basics", Duration: "Weeks 1-6", Description: "d", Tasks: []plan.GeneratedTask{task("a"), task("b"), task("c")}},
			{Title: "Practice", Duration: "Weeks 7-12", Description: "d", Tasks: []plan.GeneratedTask{task("d"), task("e")}},
		},
	}
}

// fakeGenerator returns canned results in order.
type fakeGenerator struct {
	mu      sync.Mutex
	results []*plan.GeneratedPlanResponse
	errs    []error
	calls   int
}

func (f *fakeGenerator) Generate(_ context.Context, _ plan.FormData) (*plan.GeneratedPlanResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return scenarioResponse(), nil
}

// blockingGenerator waits for release before returning.
type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
	resp    *plan.GeneratedPlanResponse
	err     error
}

func newBlockingGenerator() *blockingGenerator {
	return &blockingGenerator{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		resp:    scenarioResponse(),
	}
}

func (b *blockingGenerator) Generate(ctx context.Context, _ plan.FormData) (*plan.GeneratedPlanResponse, error) {
	b.started <- struct{}{}
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return b.resp, b.err
}

// failingStore wraps a store and fails writes on demand.
type failingStore struct {
	storage.Store
	failSet    bool
	failDelete bool
}

func (f *failingStore) Set(key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.Store.Set(key, value)
}

func (f *failingStore) Delete(key string) error {
	if f.failDelete {
		return errors.New("read-only filesystem")
	}
	return f.Store.Delete(key)
}

func completerFunc(text string) llm.Completer {
	return llm.CompleterFunc(func(context.Context, llm.Request) (string, error) {
		return text, nil
	})
}

func newMemStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := storage.NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	return s
}

func newTestApp(t *testing.T, gen PlanGenerator, store storage.Store) *PlanApp {
	t.Helper()
	n := 0
	return NewPlanApp(gen, store,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("plan-%d", n)
		}),
	)
}

func TestCreate_Scenario(t *testing.T) {
	store := newMemStore(t)
	a := newTestApp(t, &fakeGenerator{}, store)

	p, err := a.Create(context.Background(), scenarioForm())
	require.NoError(t, err)

	assert.Equal(t, "plan-1", p.ID)
	assert.Equal(t, "Learn data analysis", p.Goal)
	assert.Equal(t, fixedNow.UnixMilli(), p.CreatedAt)
	assert.Equal(t, "You can do this.", p.Overview)
	assert.Equal(t, 5, p.TotalTasks)
	assert.Equal(t, 0, p.CompletedTasks)
	assert.Equal(t, "phase-0", p.Phases[0].ID)
	assert.Equal(t, "phase-1", p.Phases[1].ID)
	assert.Equal(t, "task-0-0", p.Phases[0].Tasks[0].ID)
	assert.Equal(t, "task-1-1", p.Phases[1].Tasks[1].ID)
	assert.Equal(t, 0, plan.ProgressPercentage(p))

	raw, ok, err := store.Get(DefaultStorageKey)
	require.NoError(t, err)
	require.True(t, ok, "create must persist")
	stored, err := plan.Unmarshal([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, p, stored)

	view := a.State()
	assert.False(t, view.Loading)
	assert.Empty(t, view.Error)
	assert.Equal(t, p, view.Plan)
}

func TestCreate_ReplacesExistingPlan(t *testing.T) {
	second := &plan.GeneratedPlanResponse{
		Overview: "second",
		Phases:   []plan.GeneratedPhase{{Title: "only", Tasks: []plan.GeneratedTask{{Title: "x"}}}},
	}
	a := newTestApp(t, &fakeGenerator{results: []*plan.GeneratedPlanResponse{scenarioResponse(), second}}, newMemStore(t))

	_, err := a.Create(context.Background(), scenarioForm())
	require.NoError(t, err)
	_, err = a.Toggle(0, 0)
	require.NoError(t, err)

	p, err := a.Create(context.Background(), plan.FormData{Goal: "Other", Duration: "1 week"})
	require.NoError(t, err)
	assert.Equal(t, "plan-2", p.ID)
	assert.Equal(t, "second", p.Overview)
	assert.Equal(t, 1, p.TotalTasks)
	assert.Equal(t, 0, p.CompletedTasks, "no state is merged from the old plan")
}

func TestCreate_FailureKeepsPreviousPlan(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind planner.ErrorKind
	}{
		{name: "malformed", err: &planner.GenerationError{Kind: planner.KindMalformedResponse, Err: errors.New("not json")}, kind: planner.KindMalformedResponse},
		{name: "empty", err: &planner.GenerationError{Kind: planner.KindEmptyResponse}, kind: planner.KindEmptyResponse},
		{name: "service", err: &planner.GenerationError{Kind: planner.KindServiceFailure, Err: errors.New("quota")}, kind: planner.KindServiceFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(t)
			gen := &fakeGenerator{errs: []error{nil, tt.err}}
			a := newTestApp(t, gen, store)

			before, err := a.Create(context.Background(), scenarioForm())
			require.NoError(t, err)
			rawBefore, _, _ := store.Get(DefaultStorageKey)

			_, err = a.Create(context.Background(), scenarioForm())
			require.Error(t, err)
			assert.Equal(t, tt.kind, planner.KindOf(err), "generation errors pass through")

			assert.Equal(t, before, a.Current())
			rawAfter, _, _ := store.Get(DefaultStorageKey)
			assert.Equal(t, rawBefore, rawAfter)

			view := a.State()
			assert.False(t, view.Loading)
			assert.Equal(t, err.Error(), view.Error)
		})
	}
}

func TestCreate_EndToEndMalformedViaPlanner(t *testing.T) {
	stub := func(text string) *planner.Generator {
		return planner.NewGenerator(completerFunc(text), planner.GeneratorConfig{})
	}
	a := newTestApp(t, stub(`{"overview":"x"}`), newMemStore(t))

	_, err := a.Create(context.Background(), scenarioForm())
	require.Error(t, err)
	assert.True(t, errors.Is(err, &planner.GenerationError{Kind: planner.KindMalformedResponse}))
	assert.Nil(t, a.Current())
}

func TestToggle(t *testing.T) {
	store := newMemStore(t)
	a := newTestApp(t, &fakeGenerator{}, store)
	original, err := a.Create(context.Background(), scenarioForm())
	require.NoError(t, err)

	p, err := a.Toggle(0, 1)
	require.NoError(t, err)
	assert.True(t, p.Phases[0].Tasks[1].IsCompleted)
	assert.Equal(t, 1, p.CompletedTasks)
	assert.Equal(t, 5, p.TotalTasks)
	assert.Equal(t, 20, plan.ProgressPercentage(p))

	raw, _, err := store.Get(DefaultStorageKey)
	require.NoError(t, err)
	stored, err := plan.Unmarshal([]byte(raw))
	require.NoError(t, err)
	assert.True(t, stored.Phases[0].Tasks[1].IsCompleted, "toggle must persist")

	p, err = a.Toggle(0, 1)
	require.NoError(t, err)
	assert.Equal(t, original, p, "toggling twice restores the original")
}

func TestToggle_Errors(t *testing.T) {
	a := newTestApp(t, &fakeGenerator{}, newMemStore(t))

	_, err := a.Toggle(0, 0)
	assert.ErrorIs(t, err, ErrNoActivePlan)

	_, err = a.Create(context.Background(), scenarioForm())
	require.NoError(t, err)

	_, err = a.Toggle(2, 0)
	assert.ErrorIs(t, err, plan.ErrIndexOutOfRange)
	_, err = a.Toggle(1, 2)
	assert.ErrorIs(t, err, plan.ErrIndexOutOfRange)
	assert.Equal(t, 0, a.Current().CompletedTasks)
}

func TestReturnedPlanIsACopy(t *testing.T) {
	a := newTestApp(t, &fakeGenerator{}, newMemStore(t))
	p, err := a.Create(context.Background(), scenarioForm())
	require.NoError(t, err)

	p.Phases[0].Tasks[0].IsCompleted = true
	p.CompletedTasks = 99
	assert.Equal(t, 0, a.Current().CompletedTasks)
	assert.False(t, a.Current().Phases[0].Tasks[0].IsCompleted)
}

func TestReset(t *testing.T) {
	store := newMemStore(t)
	a := newTestApp(t, &fakeGenerator{}, store)

	require.NoError(t, a.Reset(), "reset with no plan is a no-op")

	_, err := a.Create(context.Background(), scenarioForm())
	require.NoError(t, err)
	require.NoError(t, a.Reset())
	assert.Nil(t, a.Current())
	require.NoError(t, a.Reset())

	reloaded := newTestApp(t, &fakeGenerator{}, store)
	require.NoError(t, reloaded.Load())
	assert.Nil(t, reloaded.Current(), "reset then load yields no plan")
}

func TestLoad(t *testing.T) {
	store := newMemStore(t)
	a := newTestApp(t, &fakeGenerator{}, store)
	_, err := a.Create(context.Background(), scenarioForm())
	require.NoError(t, err)
	want, err := a.Toggle(1, 0)
	require.NoError(t, err)

	restored := newTestApp(t, &fakeGenerator{}, store)
	require.NoError(t, restored.Load())
	assert.Equal(t, want, restored.Current())
}

func TestLoad_EmptyStore(t *testing.T) {
	a := newTestApp(t, &fakeGenerator{}, newMemStore(t))
	require.NoError(t, a.Load())
	assert.Nil(t, a.Current())
}

func TestLoad_CorruptDataIsDiscarded(t *testing.T) {
	for _, raw := range []string{"not json", `{"id":""}`, `{"id":"x","phases":[{"id":"p","tasks":[{"id":"p"}]}]}`} {
		t.Run(raw, func(t *testing.T) {
			store := newMemStore(t)
			require.NoError(t, store.Set(DefaultStorageKey, raw))

			a := newTestApp(t, &fakeGenerator{}, store)
			require.NoError(t, a.Load(), "corrupt storage is never surfaced")
			assert.Nil(t, a.Current())
			assert.Empty(t, a.State().Error)

			_, ok, err := store.Get(DefaultStorageKey)
			require.NoError(t, err)
			assert.False(t, ok, "corrupt data is deleted")
		})
	}
}

func TestLoad_RepairsDriftedCounters(t *testing.T) {
	store := newMemStore(t)
	p := plan.New("id", "goal", fixedNow, scenarioResponse())
	p.CompletedTasks = 4
	p.TotalTasks = 1
	data, err := plan.Marshal(p)
	require.NoError(t, err)
	require.NoError(t, store.Set(DefaultStorageKey, string(data)))

	a := newTestApp(t, &fakeGenerator{}, store)
	require.NoError(t, a.Load())
	assert.Equal(t, 5, a.Current().TotalTasks)
	assert.Equal(t, 0, a.Current().CompletedTasks)
}

func TestPersistenceFailureKeepsInMemoryState(t *testing.T) {
	store := &failingStore{Store: newMemStore(t)}
	a := newTestApp(t, &fakeGenerator{}, store)

	_, err := a.Create(context.Background(), scenarioForm())
	require.NoError(t, err)

	store.failSet = true
	p, err := a.Toggle(0, 0)
	require.Error(t, err)
	assert.True(t, IsPersistenceError(err))
	require.NotNil(t, p)
	assert.Equal(t, 1, p.CompletedTasks)
	assert.Equal(t, 1, a.Current().CompletedTasks, "in-memory state reflects the mutation")
	assert.Contains(t, a.State().Error, "disk full")

	store.failSet = false
	_, err = a.Toggle(0, 0)
	require.NoError(t, err)
	assert.Empty(t, a.State().Error)

	store.failDelete = true
	err = a.Reset()
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "reset", perr.Op)
	assert.Nil(t, a.Current())
}

func TestCreate_RejectsWhileLoading(t *testing.T) {
	gen := newBlockingGenerator()
	a := newTestApp(t, gen, newMemStore(t))

	done := make(chan error, 1)
	go func() {
		_, err := a.Create(context.Background(), scenarioForm())
		done <- err
	}()
	<-gen.started

	assert.True(t, a.State().Loading)
	_, err := a.Create(context.Background(), scenarioForm())
	assert.ErrorIs(t, err, ErrGenerationInProgress)

	close(gen.release)
	require.NoError(t, <-done)
	assert.False(t, a.State().Loading)
	assert.NotNil(t, a.Current())
}

func TestCreate_LateResultAfterResetIsDiscarded(t *testing.T) {
	store := newMemStore(t)
	gen := newBlockingGenerator()
	a := newTestApp(t, gen, store)

	done := make(chan error, 1)
	go func() {
		_, err := a.Create(context.Background(), scenarioForm())
		done <- err
	}()
	<-gen.started

	require.NoError(t, a.Reset())
	close(gen.release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Nil(t, a.Current())
	assert.False(t, a.State().Loading)
	_, ok, err := store.Get(DefaultStorageKey)
	require.NoError(t, err)
	assert.False(t, ok, "late result must not be persisted")
}

func TestCreate_LateFailureAfterResetIsDiscarded(t *testing.T) {
	gen := newBlockingGenerator()
	gen.err = &planner.GenerationError{Kind: planner.KindServiceFailure, Err: errors.New("timeout")}
	a := newTestApp(t, gen, newMemStore(t))

	done := make(chan error, 1)
	go func() {
		_, err := a.Create(context.Background(), scenarioForm())
		done <- err
	}()
	<-gen.started
	require.NoError(t, a.Reset())
	close(gen.release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Empty(t, a.State().Error)
}

func TestToggleDuringGenerationStillCommitsNewPlan(t *testing.T) {
	gen := newBlockingGenerator()
	a := newTestApp(t, &fakeGenerator{}, newMemStore(t))
	_, err := a.Create(context.Background(), scenarioForm())
	require.NoError(t, err)
	a.gen = gen

	done := make(chan error, 1)
	go func() {
		_, err := a.Create(context.Background(), scenarioForm())
		done <- err
	}()
	<-gen.started

	_, err = a.Toggle(0, 0)
	require.NoError(t, err, "the displayed plan stays usable while generating")
	close(gen.release)

	require.NoError(t, <-done)
	assert.Equal(t, "plan-2", a.Current().ID)
	assert.Equal(t, 0, a.Current().CompletedTasks)
}

func TestView_Progress(t *testing.T) {
	assert.Equal(t, 0, View{}.Progress())
	a := newTestApp(t, &fakeGenerator{}, newMemStore(t))
	_, err := a.Create(context.Background(), scenarioForm())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = a.Toggle(0, i)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err = a.Toggle(1, i)
		require.NoError(t, err)
	}
	assert.Equal(t, 100, a.State().Progress())
}

// recordingSink captures usage events.
type recordingSink struct {
	names []string
	props []map[string]any
}

func (r *recordingSink) Track(event string, properties map[string]any) {
	r.names = append(r.names, event)
	r.props = append(r.props, properties)
}

func TestEvents(t *testing.T) {
	sink := &recordingSink{}
	gen := &fakeGenerator{errs: []error{nil, &planner.GenerationError{Kind: planner.KindEmptyResponse}}}
	a := NewPlanApp(gen, newMemStore(t), WithEvents(sink))

	_, err := a.Create(context.Background(), scenarioForm())
	require.NoError(t, err)
	_, err = a.Create(context.Background(), scenarioForm())
	require.Error(t, err)
	_, err = a.Toggle(0, 0)
	require.NoError(t, err)
	require.NoError(t, a.Reset())

	require.Equal(t, []string{
		telemetry.EventPlanCreated,
		telemetry.EventPlanFailed,
		telemetry.EventTaskToggled,
		telemetry.EventPlanReset,
	}, sink.names)
	assert.Equal(t, map[string]any{"intensity": "moderate", "phases": 2, "tasks": 5}, sink.props[0])
	assert.Equal(t, "empty_response", sink.props[1]["error_kind"])
	assert.Equal(t, 20, sink.props[2]["progress"])
	assert.Equal(t, true, sink.props[2]["completed"])

	for _, props := range sink.props {
		for _, v := range props {
			assert.NotEqual(t, "Learn data analysis", v, "events must not carry user text")
		}
	}
}

func TestEvents_PersistenceFailure(t *testing.T) {
	sink := &recordingSink{}
	store := &failingStore{Store: newMemStore(t), failSet: true}
	a := NewPlanApp(&fakeGenerator{}, store, WithEvents(sink))

	_, err := a.Create(context.Background(), scenarioForm())
	require.Error(t, err)
	assert.Contains(t, sink.names, telemetry.EventPersistenceError)
}

// newSession opens a PlanApp over a shared store, as a separate process
// (CLI, TUI or MCP server) would. Plan ids carry the session name.
func newSession(t *testing.T, name string, gen PlanGenerator, store storage.Store) *PlanApp {
	t.Helper()
	n := 0
	a := NewPlanApp(gen, store,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("%s-%d", name, n)
		}),
	)
	require.NoError(t, a.Load())
	return a
}

func storedPlan(t *testing.T, store storage.Store) *plan.Plan {
	t.Helper()
	raw, ok, err := store.Get(DefaultStorageKey)
	require.NoError(t, err)
	if !ok {
		return nil
	}
	p, err := plan.Unmarshal([]byte(raw))
	require.NoError(t, err)
	return p
}

func TestToggle_AfterResetElsewhereDoesNotRestorePlan(t *testing.T) {
	store := newMemStore(t)
	server := newSession(t, "server", &fakeGenerator{}, store)
	_, err := server.Create(context.Background(), scenarioForm())
	require.NoError(t, err)

	cli := newSession(t, "cli", &fakeGenerator{}, store)
	require.NotNil(t, cli.Current())
	require.NoError(t, cli.Reset())

	_, err = server.Toggle(0, 0)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Nil(t, server.Current(), "the stored state is adopted")
	assert.Nil(t, storedPlan(t, store), "reset then load yields no plan")

	_, err = server.Toggle(0, 0)
	assert.ErrorIs(t, err, ErrNoActivePlan)
}

func TestToggle_AfterNewPlanElsewhereIsRejected(t *testing.T) {
	store := newMemStore(t)
	server := newSession(t, "server", &fakeGenerator{}, store)
	_, err := server.Create(context.Background(), scenarioForm())
	require.NoError(t, err)

	cli := newSession(t, "cli", &fakeGenerator{}, store)
	_, err = cli.Create(context.Background(), scenarioForm())
	require.NoError(t, err)

	_, err = server.Toggle(0, 0)
	assert.ErrorIs(t, err, ErrSuperseded, "indices referred to the replaced plan")
	assert.Equal(t, "cli-1", server.Current().ID)
	assert.Equal(t, 0, storedPlan(t, store).CompletedTasks)
}

func TestToggle_KeepsProgressMadeElsewhere(t *testing.T) {
	store := newMemStore(t)
	server := newSession(t, "server", &fakeGenerator{}, store)
	_, err := server.Create(context.Background(), scenarioForm())
	require.NoError(t, err)

	cli := newSession(t, "cli", &fakeGenerator{}, store)
	_, err = cli.Toggle(0, 1)
	require.NoError(t, err)

	p, err := server.Toggle(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, p.CompletedTasks)
	stored := storedPlan(t, store)
	assert.True(t, stored.Phases[0].Tasks[0].IsCompleted)
	assert.True(t, stored.Phases[0].Tasks[1].IsCompleted)
}

func TestCreate_LateResultAfterResetElsewhereIsDiscarded(t *testing.T) {
	store := newMemStore(t)
	server := newSession(t, "server", &fakeGenerator{}, store)
	_, err := server.Create(context.Background(), scenarioForm())
	require.NoError(t, err)

	gen := newBlockingGenerator()
	server.gen = gen
	done := make(chan error, 1)
	go func() {
		_, err := server.Create(context.Background(), scenarioForm())
		done <- err
	}()
	<-gen.started

	cli := newSession(t, "cli", &fakeGenerator{}, store)
	require.NoError(t, cli.Reset())
	close(gen.release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Nil(t, server.Current())
	assert.Nil(t, storedPlan(t, store))
}

func TestCreate_LateResultAfterNewPlanElsewhereIsDiscarded(t *testing.T) {
	store := newMemStore(t)
	gen := newBlockingGenerator()
	server := newSession(t, "server", gen, store)

	done := make(chan error, 1)
	go func() {
		_, err := server.Create(context.Background(), scenarioForm())
		done <- err
	}()
	<-gen.started

	cli := newSession(t, "cli", &fakeGenerator{}, store)
	_, err := cli.Create(context.Background(), scenarioForm())
	require.NoError(t, err)
	close(gen.release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, "cli-1", server.Current().ID)
	assert.Equal(t, "cli-1", storedPlan(t, store).ID)
}

func TestCreate_StartsFromLatestStoredState(t *testing.T) {
	store := newMemStore(t)
	server := newSession(t, "server", &fakeGenerator{}, store)
	_, err := server.Create(context.Background(), scenarioForm())
	require.NoError(t, err)

	cli := newSession(t, "cli", &fakeGenerator{}, store)
	require.NoError(t, cli.Reset())

	p, err := server.Create(context.Background(), scenarioForm())
	require.NoError(t, err, "a reset before the request does not discard it")
	assert.Equal(t, "server-2", p.ID)
	assert.Equal(t, "server-2", storedPlan(t, store).ID)
}

func TestCreate_SharedOSStore(t *testing.T) {
	dir := t.TempDir()
	openStore := func() storage.Store {
		s, err := storage.NewFileStore(afero.NewOsFs(), dir)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}
	server := newSession(t, "server", &fakeGenerator{}, openStore())
	_, err := server.Create(context.Background(), scenarioForm())
	require.NoError(t, err)

	cli := newSession(t, "cli", &fakeGenerator{}, openStore())
	require.NoError(t, cli.Reset())

	_, err = server.Toggle(0, 0)
	assert.ErrorIs(t, err, ErrSuperseded)
	reloaded := newSession(t, "check", &fakeGenerator{}, openStore())
	assert.Nil(t, reloaded.Current())
}

func TestCreate_RejectsInvalidFormBeforeGenerating(t *testing.T) {
	gen := &fakeGenerator{}
	a := newTestApp(t, gen, newMemStore(t))

	_, err := a.Create(context.Background(), plan.FormData{Goal: " ", Duration: "1 week"})
	assert.ErrorIs(t, err, planner.ErrInvalidForm)
	_, err = a.Create(context.Background(), plan.FormData{Goal: "x", Duration: "1 week", Intensity: "extreme"})
	assert.ErrorIs(t, err, planner.ErrInvalidForm)
	assert.Zero(t, gen.calls)
	assert.False(t, a.State().Loading)
}

func TestEvents_ReportNormalizedIntensity(t *testing.T) {
	sink := &recordingSink{}
	a := NewPlanApp(&fakeGenerator{}, newMemStore(t), WithEvents(sink))

	form := scenarioForm()
	form.Intensity = ""
	_, err := a.Create(context.Background(), form)
	require.NoError(t, err)

	require.Len(t, sink.props, 1)
	assert.Equal(t, "moderate", sink.props[0]["intensity"])
}
