// Package session ties one execution plan to one supervised run: a uuid-tagged
// state machine whose transitions and progress are published as events, so a
// terminal UI, a log file, and a test harness can all watch the same run.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elyasbromand/ytgrab"
	"github.com/elyasbromand/ytgrab/internal/backend"
	"github.com/elyasbromand/ytgrab/internal/pubsub"
)

type RunID string

func NewRunID() RunID {
	return RunID(uuid.NewString())
}

type RunStatus string

const (
	RunStatusNotStarted         RunStatus = "not_started"
	RunStatusRunning            RunStatus = "running"
	RunStatusSucceeded          RunStatus = "succeeded"
	RunStatusPartiallySucceeded RunStatus = "partially_succeeded"
	RunStatusFailed             RunStatus = "failed"
)

// Terminal reports whether the status is one of the three end states.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusPartiallySucceeded, RunStatusFailed:
		return true
	default:
		return false
	}
}

// RunState is the externally visible snapshot of a run. It is a plain value:
// comparable, diffable, safe to hand to observers.
type RunState struct {
	ID       RunID
	URL      string
	DestDir  string
	Status   RunStatus
	Progress float64
	ExitCode int
	Error    string
}

// A Run supervises exactly one execution of one plan. Runs are not reusable
// and not safe to Execute concurrently against the same destination.
type Run struct {
	plan   ytgrab.ExecutionPlan
	runner *backend.Runner

	mu    sync.Mutex
	state RunState

	events *pubsub.Publisher[Event]
}

func NewRun(plan ytgrab.ExecutionPlan, runner *backend.Runner) *Run {
	id := NewRunID()
	return &Run{
		plan:   plan,
		runner: runner,
		state: RunState{
			ID:      id,
			URL:     plan.Target.URL,
			DestDir: plan.DestDir,
			Status:  RunStatusNotStarted,
		},
		events: pubsub.NewPublisher[Event](),
	}
}

func (r *Run) ID() RunID {
	return r.state.ID
}

func (r *Run) String() string {
	s := r.State()
	return fmt.Sprintf("Run{ID:%q, URL:%q, Status:%q}", s.ID, s.URL, s.Status)
}

func (r *Run) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe returns a receive channel for this run's events. Subscribers must
// drain the channel promptly; slow subscribers lose events.
func (r *Run) Subscribe() <-chan Event {
	return r.events.Subscribe()
}

func (r *Run) log() *zap.SugaredLogger {
	return zap.S().Named("run").With("run_id", r.state.ID)
}

// Execute drives the plan to completion, blocking until the backend exits or
// ctx is cancelled. The event stream is closed before Execute returns.
func (r *Run) Execute(ctx context.Context) ytgrab.Outcome {
	log := r.log()
	log.Infow("run starting", "url", r.plan.Target.URL, "dest", r.plan.DestDir)

	r.updateState(func(s *RunState) {
		s.Status = RunStatusRunning
	})
	r.events.Publish(RunStarted{runEvent{r.state.ID}, r.State()})

	outcome := r.runner.Execute(ctx, r.plan, &runObserver{run: r})

	r.updateState(func(s *RunState) {
		s.Status = statusFromOutcome(outcome)
		s.ExitCode = outcome.ExitCode
		if outcome.Err != nil {
			s.Error = outcome.Err.Error()
		}
	})
	r.events.Publish(RunFinished{runEvent{r.state.ID}, r.State()})
	r.events.Close()

	log.Infow("run finished", "outcome", outcome.Status)
	return outcome
}

func statusFromOutcome(o ytgrab.Outcome) RunStatus {
	switch o.Status {
	case ytgrab.StatusSucceeded:
		return RunStatusSucceeded
	case ytgrab.StatusPartiallySucceeded:
		return RunStatusPartiallySucceeded
	default:
		return RunStatusFailed
	}
}

func (r *Run) updateState(f func(s *RunState)) {
	r.mu.Lock()
	old := r.state
	f(&r.state)
	changed := r.state != old
	newState := r.state
	r.mu.Unlock()
	if changed {
		r.events.Publish(RunUpdated{runEvent{newState.ID}, old, newState})
	}
}

// runObserver adapts backend events onto the run's state and event stream.
type runObserver struct {
	run *Run
}

func (o *runObserver) Progress(percent float64) {
	o.run.updateState(func(s *RunState) {
		s.Progress = percent
	})
}

func (o *runObserver) Info(line string) {
	o.run.events.Publish(RunLog{runEvent{o.run.state.ID}, line})
}
