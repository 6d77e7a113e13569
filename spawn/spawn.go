// Package spawn starts game processes detached from the daemon, implementing
// the fire-and-forget launch contract the switcher depends on.
package spawn

import (
	"fmt"
	"os/exec"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("spawn")

// Detached launches commands in their own session so they survive the
// daemon and never share its controlling terminal.
type Detached struct {
	// Dir, when set, becomes the child's working directory.
	Dir string
}

func (d *Detached) Launch(command string, args []string) error {
	cmd := exec.Command(command, args...)
	cmd.Dir = d.Dir
	cmd.SysProcAttr = detachedAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn: start %s: %w", command, err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		log.Warningf("release pid %d: %v", pid, err)
	}

	log.Infof("launched %s (pid %d)", command, pid)
	return nil
}
