// File: api/proc.go
// Author: momentics <momentics@gmail.com>
//
// Child-process supervision contract.

package api

// Supervisor observes and terminates a spawned child process.
type Supervisor interface {
	// IsRunning reports whether the child is still alive. Non-blocking.
	// Once an exit has been observed the handle remembers it and keeps
	// returning false.
	IsRunning() bool

	// Stop terminates the child: poll for an already-exited process,
	// send the platform terminate signal if still running, then reap.
	Stop()
}
