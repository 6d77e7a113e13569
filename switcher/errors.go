package switcher

import (
	"errors"
	"fmt"
)

// ErrBusy: only one switch session may be active at a time.
var ErrBusy = errors.New("switcher: switch already in progress")

// ErrNoSession: the switcher was entered with no running game recorded.
var ErrNoSession = errors.New("switcher: no game is running")

// TerminalError marks a failure that is fatal to the switch session. After a
// relaunch has been attempted, both the old and new process states are
// uncertain and the UI must tell the user explicitly.
type TerminalError struct {
	wrapped error
}

func (e *TerminalError) Unwrap() error { return e.wrapped }
func (e *TerminalError) Error() string {
	if e.wrapped == nil {
		return "switcher terminal error"
	}
	return fmt.Sprintf("switcher terminal error: %v", e.wrapped)
}
