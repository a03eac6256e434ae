//go:build windows

// File: internal/proc/terminate_windows.go
// Author: momentics <momentics@gmail.com>

package proc

import "os"

func terminate(p *os.Process) {
	_ = p.Kill()
}
