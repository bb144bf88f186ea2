package player

import (
	"os/exec"
)

// Launcher starts a player process that outlives the caller
type Launcher interface {
	Launch(binary string, args []string) error
}

type execLauncher struct{}

// Launch starts binary detached from this process with stdio on the null
// device, then releases the handle.
func (execLauncher) Launch(binary string, args []string) error {
	cmd := exec.Command(binary, args...)
	cmd.SysProcAttr = detachAttr()
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
