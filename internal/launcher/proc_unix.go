//go:build unix

package launcher

import (
	"errors"
	"syscall"
)

// detachedProcAttr puts the child in its own process group so the whole
// tree can be signalled at once and does not receive the server's signals.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// processAlive reports whether a process with the given pid exists. EPERM
// means it exists but belongs to someone else.
func processAlive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

// killProcessGroup force-kills the process group rooted at pid.
func killProcessGroup(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}

// isProcessGone reports whether a kill failed because the target no longer
// exists.
func isProcessGone(err error) bool {
	return errors.Is(err, syscall.ESRCH)
}
