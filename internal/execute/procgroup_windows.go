//go:build windows

package execute

import (
	"fmt"
	"os"
	"os/exec"
	"time"
)

const processGroupWaitDelay = 3 * time.Second

// setupProcessGroup arranges for the child's process tree to be killed
// on context cancellation via taskkill, which follows child processes
// where TerminateProcess would not.
func setupProcessGroup(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return os.ErrProcessDone
		}
		kill := exec.Command("taskkill", "/pid", fmt.Sprint(cmd.Process.Pid), "/f", "/t")
		return kill.Run()
	}
	cmd.WaitDelay = processGroupWaitDelay
}
