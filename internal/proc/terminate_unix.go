//go:build !windows

// File: internal/proc/terminate_unix.go
// Author: momentics <momentics@gmail.com>

package proc

import (
	"os"

	"golang.org/x/sys/unix"
)

func terminate(p *os.Process) {
	_ = p.Signal(unix.SIGTERM)
}
