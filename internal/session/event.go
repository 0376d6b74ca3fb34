package session

// An Event is emitted on a Run's event stream while it executes.
type Event interface {
	// RunID identifies the Run this event relates to.
	RunID() RunID
}

type runEvent struct {
	id RunID
}

func (e runEvent) RunID() RunID {
	return e.id
}

type RunStarted struct {
	runEvent
	State RunState
}

// RunUpdated carries both states so observers can diff them.
type RunUpdated struct {
	runEvent
	OldState RunState
	NewState RunState
}

// RunLog forwards an informational backend output line verbatim.
type RunLog struct {
	runEvent
	Line string
}

type RunFinished struct {
	runEvent
	State RunState
}
