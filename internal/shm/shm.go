// File: internal/shm/shm.go
// Author: momentics <momentics@gmail.com>
//
// Named, fixed-size, process-shared memory segments. The server creates
// and later unlinks a segment; a client only borrows a mapping of it.
// Platform implementations: shm_linux.go (shm_open semantics over
// /dev/shm), shm_windows.go (file mapping objects), shm_stub.go.

package shm

// NameMax bounds the opaque segment identifier. The platform object name
// is derived by prefixing "/" (POSIX) or `Local\` (Win32).
const NameMax = 22

// ValidName reports whether name is usable as a segment identifier:
// 1..NameMax printable 7-bit ASCII characters without a path separator.
func ValidName(name string) bool {
	if len(name) == 0 || len(name) > NameMax {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= 0x20 || c >= 0x7F || c == '/' || c == '\\' {
			return false
		}
	}
	return true
}
