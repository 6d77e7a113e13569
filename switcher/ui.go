package switcher

import (
	"time"

	"allium/history"
	"allium/retroarch"
)

// Protocol is the slice of the emulator protocol client the orchestrator
// uses. The concrete implementation is retroarch.Client.
type Protocol interface {
	Send(cmd retroarch.Command) error
	SendRecv(cmd retroarch.Command, timeout time.Duration) (string, error)
	Status(timeout time.Duration) (retroarch.StatusReply, error)
}

// Launcher accepts a process-start request and starts it detached. The
// contract is fire-and-forget: no feedback beyond the error from handing the
// request over.
type Launcher interface {
	Launch(command string, args []string) error
}

// ActionKind tags the UI collaborator's decision while the orchestrator is
// awaiting selection.
type ActionKind int

const (
	// ActionSelect picks a candidate by index.
	ActionSelect ActionKind = iota
	// ActionCancel leaves the switcher and resumes the running game.
	ActionCancel
	// ActionRemove deletes one candidate from history; the switcher stays
	// open.
	ActionRemove
)

type Action struct {
	Kind ActionKind

	// Index of the selected candidate, for ActionSelect.
	Index int

	// RemovePath identifies the entry to delete, for ActionRemove.
	RemovePath string
}

// EventResult is returned up the UI navigation stack for each input event,
// instead of ambient callback chains. The stack manager propagates
// EventUnhandled to the next view down; EventRequestClose pops the view.
type EventResult int

const (
	EventUnhandled EventResult = iota
	EventHandled
	EventRequestClose
)

// UI is the collaborator driving AwaitingSelection. ShowCandidates is called
// whenever the candidate list changes; NextAction blocks, human-paced and
// without timeout, until the user decides. The orchestrator calls Teardown
// exactly once per session, on both the Done and the Aborting exits.
type UI interface {
	ShowCandidates(candidates []history.Entry)
	NextAction() (Action, error)
	Teardown()
}
