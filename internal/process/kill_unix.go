//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// NewGroup places cmd in its own process group so KillProcessGroup can
// reach every child it spawns (soffice forks soffice.bin).
func NewGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; callers still wait on the process.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
