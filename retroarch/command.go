package retroarch

import "fmt"

// AutoSlot is the reserved save-state slot used for automatic saves taken
// while switching games. Manual saves use slots >= 0.
const AutoSlot = -1

// Command is one line of the RetroArch network command interface.
type Command struct {
	text string

	// expectsReply marks query commands; fire-and-forget commands never
	// produce a datagram back.
	expectsReply bool
}

func (c Command) String() string     { return c.text }
func (c Command) Bytes() []byte      { return []byte(c.text) }
func (c Command) ExpectsReply() bool { return c.expectsReply }

func Pause() Command     { return Command{text: "PAUSE"} }
func Unpause() Command   { return Command{text: "UNPAUSE"} }
func SaveState() Command { return Command{text: "SAVE_STATE"} }
func LoadState() Command { return Command{text: "LOAD_STATE"} }
func Quit() Command      { return Command{text: "QUIT"} }

func SaveStateSlot(n int) Command {
	return Command{text: fmt.Sprintf("SAVE_STATE_SLOT %d", n)}
}

func LoadStateSlot(n int) Command {
	return Command{text: fmt.Sprintf("LOAD_STATE_SLOT %d", n)}
}

func GetStateSlot() Command {
	return Command{text: "GET_STATE_SLOT", expectsReply: true}
}

func GetStatus() Command {
	return Command{text: "GET_STATUS", expectsReply: true}
}
