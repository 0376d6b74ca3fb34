// Package backend supervises the external yt-dlp process: it launches it with
// an assembled argument vector, turns its line-oriented output into progress
// events, and classifies its exit status. It never reimplements any of the
// backend's extraction logic.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/elyasbromand/ytgrab"
)

const DefaultBinary = "yt-dlp"

var (
	// ErrNotInstalled is an environment precondition failure, never retried.
	ErrNotInstalled = errors.New("yt-dlp is not installed or not on PATH")
)

// An Observer receives the event stream of a running execution. The same
// supervisor serves a terminal UI, a log file, or a test harness through this
// interface; it knows nothing about output media.
type Observer interface {
	// Progress reports a bounded, per-item monotonic percentage in [0,100].
	Progress(percent float64)
	// Info forwards a non-progress, non-debug backend output line verbatim.
	Info(line string)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) Progress(float64) {}
func (NopObserver) Info(string)      {}

// A Runner supervises one child process per Execute call. It is not designed
// for concurrent invocations against the same destination path.
type Runner struct {
	binary string
}

func NewRunner(binary string) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Runner{binary: binary}
}

func (r *Runner) Binary() string {
	return r.binary
}

func (r *Runner) log() *zap.SugaredLogger {
	return zap.S().Named("backend")
}

const versionTimeout = 10 * time.Second

// Version asks the backend for its version string, doubling as the
// NotInstalled precondition probe before any fetch is attempted.
func (r *Runner) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, r.binary, "--version").Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrNotInstalled
		}
		return "", fmt.Errorf("%w: %v", ErrNotInstalled, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Execute runs the plan to completion, streaming events to the observer. The
// call blocks for the full duration of the fetch; there is deliberately no
// overall deadline, since large collections can legitimately run for hours.
// Cancelling ctx terminates the child process abruptly (the backend has no
// cooperative cancellation protocol) and yields a failed Outcome.
func (r *Runner) Execute(ctx context.Context, plan ytgrab.ExecutionPlan, obs Observer) ytgrab.Outcome {
	if obs == nil {
		obs = NopObserver{}
	}
	args := plan.Args()
	log := r.log()
	log.Debugw("starting backend", "binary", r.binary, "args", args)

	cmd := exec.CommandContext(ctx, r.binary, args...)
	// stderr is merged into stdout: the backend interleaves progress and
	// warnings across both and only the line content distinguishes them.
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		if errors.Is(err, exec.ErrNotFound) {
			log.Errorw("backend not found", "binary", r.binary)
			return ytgrab.Outcome{Status: ytgrab.StatusFailed, Err: ErrNotInstalled}
		}
		return ytgrab.Outcome{Status: ytgrab.StatusFailed, Err: fmt.Errorf("failed to start backend: %w", err)}
	}

	waited := make(chan error, 1)
	go func() {
		waited <- cmd.Wait()
		pw.Close()
	}()

	// Single reader loop on the calling goroutine; no parallel fan-out.
	consumeOutput(pr, obs)
	err := <-waited

	if ctx.Err() != nil {
		log.Warnw("backend terminated", "cause", ctx.Err())
		return ytgrab.Outcome{Status: ytgrab.StatusFailed, Err: ctx.Err()}
	}
	outcome := classifyExit(err)
	log.Infow("backend finished", "status", outcome.Status, "exit_code", outcome.ExitCode)
	return outcome
}

// classifyExit maps the backend's exit status to the tri-state Outcome. Exit
// code 1 is the backend's "some items failed, others completed" convention
// and is surfaced as partial success rather than total failure.
func classifyExit(err error) ytgrab.Outcome {
	if err == nil {
		return ytgrab.Outcome{Status: ytgrab.StatusSucceeded}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitOutcome(exitErr.ExitCode())
	}
	return ytgrab.Outcome{Status: ytgrab.StatusFailed, Err: err}
}

func exitOutcome(code int) ytgrab.Outcome {
	switch code {
	case 0:
		return ytgrab.Outcome{Status: ytgrab.StatusSucceeded}
	case 1:
		return ytgrab.Outcome{
			Status:   ytgrab.StatusPartiallySucceeded,
			ExitCode: 1,
			Reason:   "some items may have failed",
		}
	default:
		return ytgrab.Outcome{
			Status:   ytgrab.StatusFailed,
			ExitCode: code,
			Err:      fmt.Errorf("backend exited with code %d", code),
		}
	}
}
