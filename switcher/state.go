package switcher

// State is the orchestrator's position in the switch pipeline. Aborting is
// reachable from every state except Done.
type State int

const (
	Idle State = iota
	Pausing
	Capturing
	AwaitingSelection
	Saving
	Terminating
	Launching
	Done
	Aborting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pausing:
		return "pausing"
	case Capturing:
		return "capturing"
	case AwaitingSelection:
		return "awaiting-selection"
	case Saving:
		return "saving"
	case Terminating:
		return "terminating"
	case Launching:
		return "launching"
	case Done:
		return "done"
	case Aborting:
		return "aborting"
	default:
		return "unknown"
	}
}
