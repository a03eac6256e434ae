//go:build windows

// File: internal/sem/sem_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows sleeping path: WaitOnAddress/WakeByAddressAll over the shared
// word, the kernel's futex equivalent.

package sem

import (
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modKernelBase        = windows.NewLazySystemDLL("kernelbase.dll")
	procWaitOnAddress    = modKernelBase.NewProc("WaitOnAddress")
	procWakeByAddressAll = modKernelBase.NewProc("WakeByAddressAll")
)

func sleepOnWord(word *uint32, d time.Duration) bool {
	undesired := uint32(0)
	ms := d.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	ret, _, _ := procWaitOnAddress.Call(
		uintptr(unsafe.Pointer(word)),
		uintptr(unsafe.Pointer(&undesired)),
		unsafe.Sizeof(*word),
		uintptr(ms))
	return ret != 0
}

func wakeSleepers(word *uint32) {
	procWakeByAddressAll.Call(uintptr(unsafe.Pointer(word)))
}
