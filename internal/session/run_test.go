package session

import (
	"context"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"

	"github.com/elyasbromand/ytgrab"
	"github.com/elyasbromand/ytgrab/internal/backend"
)

func testPlan(t *testing.T) ytgrab.ExecutionPlan {
	t.Helper()
	target, err := ytgrab.Classify("https://youtu.be/dQw4w9WgXcQ")
	require_.NoError(t, err)
	plan, err := ytgrab.NewPlanBuilder().
		WithTarget(target).
		WithDestination(t.TempDir()).
		Build()
	require_.NoError(t, err)
	return plan
}

func TestNewRunState(t *testing.T) {
	assert := assert_.New(t)

	run := NewRun(testPlan(t), backend.NewRunner(""))
	state := run.State()
	assert.NotEmpty(state.ID)
	assert.Equal("https://youtu.be/dQw4w9WgXcQ", state.URL)
	assert.Equal(RunStatusNotStarted, state.Status)
	assert.False(state.Status.Terminal())
}

func TestRunStatusTerminal(t *testing.T) {
	assert := assert_.New(t)

	assert.False(RunStatusNotStarted.Terminal())
	assert.False(RunStatusRunning.Terminal())
	assert.True(RunStatusSucceeded.Terminal())
	assert.True(RunStatusPartiallySucceeded.Terminal())
	assert.True(RunStatusFailed.Terminal())
}

func TestStatusFromOutcome(t *testing.T) {
	assert := assert_.New(t)

	assert.Equal(RunStatusSucceeded, statusFromOutcome(ytgrab.Outcome{Status: ytgrab.StatusSucceeded}))
	assert.Equal(RunStatusPartiallySucceeded, statusFromOutcome(ytgrab.Outcome{Status: ytgrab.StatusPartiallySucceeded}))
	assert.Equal(RunStatusFailed, statusFromOutcome(ytgrab.Outcome{Status: ytgrab.StatusFailed}))
}

// Executing against a missing backend binary must fail cleanly with the
// NotInstalled condition and still emit the full event sequence.
func TestExecuteBackendMissing(t *testing.T) {
	assert := assert_.New(t)

	run := NewRun(testPlan(t), backend.NewRunner("ytgrab-test-no-such-binary"))
	events := run.Subscribe()

	outcome := run.Execute(context.Background())
	assert.Equal(ytgrab.StatusFailed, outcome.Status)
	assert.ErrorIs(outcome.Err, backend.ErrNotInstalled)

	state := run.State()
	assert.Equal(RunStatusFailed, state.Status)
	assert.NotEmpty(state.Error)

	var sawStarted, sawFinished bool
	for event := range events {
		switch e := event.(type) {
		case RunStarted:
			sawStarted = true
			assert.Equal(RunStatusRunning, e.State.Status)
		case RunFinished:
			sawFinished = true
			assert.Equal(RunStatusFailed, e.State.Status)
		}
	}
	assert.True(sawStarted)
	assert.True(sawFinished)
}

func TestUpdateStatePublishesChanges(t *testing.T) {
	assert := assert_.New(t)

	run := NewRun(testPlan(t), backend.NewRunner(""))
	events := run.Subscribe()

	obs := &runObserver{run: run}
	obs.Progress(42.0)
	obs.Progress(42.0) // no change, no event
	obs.Info("[youtube] abc: Downloading webpage")
	run.events.Close()

	var updates []RunUpdated
	var logs []RunLog
	for event := range events {
		switch e := event.(type) {
		case RunUpdated:
			updates = append(updates, e)
		case RunLog:
			logs = append(logs, e)
		}
	}
	assert.Len(updates, 1)
	assert.Equal(42.0, updates[0].NewState.Progress)
	assert.Equal(0.0, updates[0].OldState.Progress)
	assert.Len(logs, 1)
	assert.Equal("[youtube] abc: Downloading webpage", logs[0].Line)
}
