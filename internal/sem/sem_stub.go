//go:build !linux && !windows

// File: internal/sem/sem_stub.go
// Author: momentics <momentics@gmail.com>
//
// Fallback sleeping path for platforms without an exposed futex: bounded
// polling of the shared word. Externally the contract is identical, only
// wake latency differs.

package sem

import "time"

func sleepOnWord(word *uint32, d time.Duration) bool {
	step := time.Millisecond
	if d < step {
		step = d
	}
	time.Sleep(step)
	return true
}

func wakeSleepers(word *uint32) {}
