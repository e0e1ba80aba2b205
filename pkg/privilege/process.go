//go:build !windows

package privilege

import (
	"os"
	"syscall"
)

// processAlive reports whether a process with the given pid exists.
// Signal 0 performs the existence check without delivering anything.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
