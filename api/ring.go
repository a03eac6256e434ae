// File: api/ring.go
// Author: momentics <momentics@gmail.com>
//
// Contract for the lock-free single-producer/single-consumer byte ring
// that carries framed records between the two channel endpoints.

package api

// ByteRing is a variable-size record queue over a fixed byte buffer.
//
// Exactly one goroutine (or process) may produce and exactly one may
// consume. Write stages bytes without publishing them; Commit publishes
// everything staged since the previous Commit as one atomic record.
type ByteRing interface {
	// Size returns buffer capacity in bytes, fixed at init.
	Size() uint32

	// ReadSize returns the number of committed bytes available to read.
	ReadSize() uint32

	// WriteSize returns the free space left for staging; a Write must be
	// shorter than it. One byte of capacity is reserved to distinguish
	// full from empty.
	WriteSize() uint32

	// Read copies len(dst) committed bytes into dst and consumes them.
	// Returns false if fewer bytes are available.
	Read(dst []byte) bool

	// Write stages len(src) bytes after the previously staged data.
	// Returns false (and poisons the pending commit) on overflow.
	Write(src []byte) bool

	// Commit publishes all staged bytes as one record, or rolls the
	// staging cursor back if any Write since the last Commit failed.
	Commit() bool
}
