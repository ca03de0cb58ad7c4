//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the whole process group of pid,
// reaching the browser helpers a plain Kill would orphan.
func KillProcessGroup(pid int) {
	// Errors are ignored; the launcher cleanup still runs afterwards.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
