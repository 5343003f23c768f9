package plan

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal_RoundTripsStoredPlan(t *testing.T) {
	p := New("id", "goal", time.UnixMilli(1760000000000), sampleResponse())
	p, err := Toggle(p, 0, 0)
	require.NoError(t, err)

	data, err := Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"isCompleted":true`)
	assert.Contains(t, string(data), `"createdAt":1760000000000`)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestUnmarshal_RecomputesCounters(t *testing.T) {
	data := `{"id":"x","goal":"g","createdAt":1,"overview":"o","phases":[
		{"id":"phase-0","title":"t","duration":"d","description":"x","tasks":[
			{"id":"task-0-0","title":"a","description":"","tips":"","isCompleted":true},
			{"id":"task-0-1","title":"b","description":"","tips":"","isCompleted":false}]}],
		"totalTasks":7,"completedTasks":7}`

	got, err := Unmarshal([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalTasks)
	assert.Equal(t, 1, got.CompletedTasks)
}

func TestUnmarshal_Corrupt(t *testing.T) {
	for _, in := range []string{"", "not json", "null", `{"goal":"no id"}`, `{"id":"x","phases":"nope"}`} {
		_, err := Unmarshal([]byte(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestExport(t *testing.T) {
	p := New("id", "Learn data analysis", time.Now(), sampleResponse())

	y, err := Export(p, "yaml")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(y), "goal: Learn data analysis"))
	assert.Contains(t, string(y), "id: task-1-1")

	j, err := Export(p, "JSON")
	require.NoError(t, err)
	assert.Contains(t, string(j), `"totalTasks": 5`)

	_, err = Export(p, "toml")
	assert.Error(t, err)
}
