//go:build linux

// File: internal/sem/sem_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux sleeping path: futex over the shared word. FUTEX_PRIVATE must not
// be used here, the word is shared between processes.

package sem

import (
	"math"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux futex(2) operation codes. golang.org/x/sys/unix does not export
// these (they are raw linux/futex.h values), so they are declared here.
const (
	FUTEX_WAIT = 0
	FUTEX_WAKE = 1
)

// sleepOnWord parks the caller until the word leaves 0, a wake arrives, or
// the timeout elapses. Returns false on timeout or any other futex error;
// spurious wakeups and signal interruptions return true so the caller
// re-checks the word.
func sleepOnWord(word *uint32, d time.Duration) bool {
	ts := unix.NsecToTimespec(d.Nanoseconds())
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(word)),
		uintptr(FUTEX_WAIT),
		0,
		uintptr(unsafe.Pointer(&ts)),
		0, 0)
	switch errno {
	case 0, unix.EAGAIN, unix.EINTR:
		return true
	default:
		return false
	}
}

func wakeSleepers(word *uint32) {
	unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(word)),
		uintptr(FUTEX_WAKE),
		uintptr(math.MaxInt32),
		0, 0, 0)
}
