package ytgrab

import "fmt"

// An OutcomeStatus is the terminal state of one backend execution.
type OutcomeStatus string

const (
	StatusSucceeded OutcomeStatus = "succeeded"
	// StatusPartiallySucceeded is the backend's exit-code-1 convention: some
	// items of a multi-item job failed while others completed, or non-fatal
	// warnings occurred. It is a successful-enough terminal state, not an
	// error.
	StatusPartiallySucceeded OutcomeStatus = "partially_succeeded"
	StatusFailed             OutcomeStatus = "failed"
)

// An Outcome is created once per execution and is terminal. ExitCode carries
// the backend's exit code verbatim so the caller can offer remediation
// without this layer inventing explanations.
type Outcome struct {
	Status   OutcomeStatus
	ExitCode int
	Reason   string
	Err      error
}

// OK reports whether the run should be treated as having delivered something:
// true for full and partial success.
func (o Outcome) OK() bool {
	return o.Status == StatusSucceeded || o.Status == StatusPartiallySucceeded
}

func (o Outcome) String() string {
	switch o.Status {
	case StatusSucceeded:
		return "succeeded"
	case StatusPartiallySucceeded:
		return fmt.Sprintf("partially succeeded (%s)", o.Reason)
	default:
		if o.Err != nil {
			return fmt.Sprintf("failed: %v", o.Err)
		}
		return fmt.Sprintf("failed (exit code %d)", o.ExitCode)
	}
}
