package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResponse() *GeneratedPlanResponse {
	return &GeneratedPlanResponse{
		Overview: "Twelve weeks from spreadsheets to a first analysis project.",
		Phases: []GeneratedPhase{
			{
				Title:       "Foundations",
				Duration:    "Weeks 1-4",
				Description: "Python and pandas basics",
				Tasks: []GeneratedTask{
					{Title: "Install Python", Description: "Set up a virtualenv", Tips: "Use pyenv"},
					{Title: "Learn pandas", Description: "DataFrame basics", Tips: "Read the 10 minutes guide"},
					{Title: "Load a CSV", Description: "Explore a public dataset", Tips: "Try Kaggle"},
				},
			},
			{
				Title:       "Projects",
				Duration:    "Weeks 5-12",
				Description: "Apply the basics",
				Tasks: []GeneratedTask{
					{Title: "Pick a dataset", Description: "Something you care about", Tips: "Keep it small"},
					{Title: "Publish findings", Description: "Write a short report", Tips: "Charts first"},
				},
			},
		},
	}
}

func TestNew_AssignsPositionalIDs(t *testing.T) {
	created := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	p := New("plan-1", "Learn data analysis", created, sampleResponse())

	assert.Equal(t, "plan-1", p.ID)
	assert.Equal(t, "Learn data analysis", p.Goal)
	assert.Equal(t, created.UnixMilli(), p.CreatedAt)
	assert.Equal(t, 5, p.TotalTasks)
	assert.Equal(t, 0, p.CompletedTasks)

	require.Len(t, p.Phases, 2)
	assert.Equal(t, "phase-0", p.Phases[0].ID)
	assert.Equal(t, "phase-1", p.Phases[1].ID)

	var ids []string
	for _, phase := range p.Phases {
		for _, task := range phase.Tasks {
			ids = append(ids, task.ID)
			assert.False(t, task.IsCompleted)
		}
	}
	assert.Equal(t, []string{"task-0-0", "task-0-1", "task-0-2", "task-1-0", "task-1-1"}, ids)
}

func TestNew_TotalMatchesPhaseCounts(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
	}{
		{name: "no phases", counts: nil},
		{name: "empty phase", counts: []int{0}},
		{name: "uneven", counts: []int{1, 0, 4, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := &GeneratedPlanResponse{Overview: "o"}
			want := 0
			for _, n := range tc.counts {
				phase := GeneratedPhase{Title: "p", Tasks: make([]GeneratedTask, n)}
				resp.Phases = append(resp.Phases, phase)
				want += n
			}
			p := New("id", "goal", time.Now(), resp)
			assert.Equal(t, want, p.TotalTasks)
			assert.Equal(t, 0, p.CompletedTasks)
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	p := New("id", "goal", time.Now(), sampleResponse())
	cp := p.Clone()
	require.Equal(t, p, cp)

	cp.Phases[0].Tasks[0].IsCompleted = true
	assert.False(t, p.Phases[0].Tasks[0].IsCompleted, "clone must not share task storage")
}

func TestValidate_DuplicateIDs(t *testing.T) {
	p := New("id", "goal", time.Now(), sampleResponse())
	p.Phases[1].Tasks[0].ID = "task-0-0"

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestParseIntensity(t *testing.T) {
	tests := []struct {
		in      string
		want    Intensity
		wantErr bool
	}{
		{in: "", want: IntensityModerate},
		{in: "relaxed", want: IntensityRelaxed},
		{in: " Intense ", want: IntensityIntense},
		{in: "extreme", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseIntensity(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}
