//go:build windows

package lock

import (
	"syscall"
)

const processQueryLimitedInformation = 0x1000

// processExists checks if a process with the given PID exists
func processExists(pid int) bool {
	handle, err := syscall.OpenProcess(processQueryLimitedInformation, false, uint32(pid))
	if err != nil {
		return false
	}
	defer syscall.CloseHandle(handle)

	var exitCode uint32
	if err := syscall.GetExitCodeProcess(handle, &exitCode); err != nil {
		return false
	}

	const stillActive = 259
	return exitCode == stillActive
}
