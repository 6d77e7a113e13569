package retroarch

import "strings"

// State is the emulator's reported content state.
type State int

const (
	StateUnknown State = iota
	StatePlaying
	StatePaused
	StateContentless
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	case StateContentless:
		return "CONTENTLESS"
	default:
		return "UNKNOWN"
	}
}

// StatusReply is the decoded GET_STATUS response. ContentPath is empty when
// the emulator is contentless or omitted the field.
type StatusReply struct {
	State       State
	ContentPath string
}

// ParseStatus decodes a GET_STATUS reply line of the form
// "STATUS <token>[,<content-path>]". The channel carries free text from an
// external process, so nothing here is an error: missing fields, stray
// whitespace and unknown tokens all decode to StateUnknown.
func ParseStatus(line string) StatusReply {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "STATUS" {
		return StatusReply{State: StateUnknown}
	}

	// the content path may itself contain spaces; rejoin everything after
	// the leading tag before splitting on the first comma.
	rest := strings.Join(fields[1:], " ")
	token := rest
	content := ""
	if i := strings.IndexByte(rest, ','); i >= 0 {
		token = rest[:i]
		content = strings.TrimSpace(rest[i+1:])
	}

	switch strings.TrimSpace(token) {
	case "PLAYING":
		return StatusReply{State: StatePlaying, ContentPath: content}
	case "PAUSED":
		return StatusReply{State: StatePaused, ContentPath: content}
	case "CONTENTLESS":
		// contentless replies never carry a path
		return StatusReply{State: StateContentless}
	default:
		return StatusReply{State: StateUnknown}
	}
}
