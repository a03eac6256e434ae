// File: internal/ring/ring.go
// Author: momentics <momentics@gmail.com>
//
// Lock-free single-producer/single-consumer byte ring over a shared-memory
// window. The header and buffer live inside the mapped segment, so every
// field is addressed relative to the window start, never via pointers
// captured in another process.

package ring

import (
	"sync/atomic"
	"unsafe"

	"github.com/momentics/uibridge-ipc/api"
)

// HeaderSize is the fixed on-segment size of a ring header in bytes.
const HeaderSize = 32

// Header field offsets within the window.
const (
	offSize  = 0
	offHead  = 4
	offTail  = 8
	offWrtn  = 12
	offFlags = 16
)

// Flag bits. InvalidateCommit poisons the pending commit after a staged
// write overran; the error bits are sticky and cleared on the next
// successful operation in the same direction.
const (
	FlagInvalidateCommit uint32 = 1 << 0
	FlagErrorReading     uint32 = 1 << 1
	FlagErrorWriting     uint32 = 1 << 2
)

// Ring is a view of one SPSC byte ring inside a mapped window.
//
// head is published by the producer with a release store and loaded by the
// consumer with acquire; tail is owned by the consumer and published the
// same way; wrtn is the producer's staging cursor and never read by the
// consumer.
type Ring struct {
	size  uint32
	head  *uint32
	tail  *uint32
	wrtn  *uint32
	flags *uint32
	buf   []byte
}

// Init zeroes the window and records the buffer capacity, then returns a
// view of the freshly initialised ring. Only the segment owner calls this.
func Init(mem []byte, size uint32) *Ring {
	if size == 0 || len(mem) < HeaderSize+int(size) {
		panic("ring: window too small for requested capacity")
	}
	for i := 0; i < HeaderSize+int(size); i++ {
		mem[i] = 0
	}
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&mem[offSize])), size)
	return At(mem)
}

// At returns a view of an already-initialised ring inside mem. The peer
// endpoint uses this to see the ring the owner created.
func At(mem []byte) *Ring {
	if len(mem) < HeaderSize {
		panic("ring: window smaller than header")
	}
	size := atomic.LoadUint32((*uint32)(unsafe.Pointer(&mem[offSize])))
	if size == 0 || len(mem) < HeaderSize+int(size) {
		panic("ring: window smaller than recorded capacity")
	}
	return &Ring{
		size:  size,
		head:  (*uint32)(unsafe.Pointer(&mem[offHead])),
		tail:  (*uint32)(unsafe.Pointer(&mem[offTail])),
		wrtn:  (*uint32)(unsafe.Pointer(&mem[offWrtn])),
		flags: (*uint32)(unsafe.Pointer(&mem[offFlags])),
		buf:   mem[HeaderSize : HeaderSize+int(size)],
	}
}

// Size returns the fixed buffer capacity in bytes.
func (r *Ring) Size() uint32 { return r.size }

// Flags returns the current flag bits.
func (r *Ring) Flags() uint32 { return atomic.LoadUint32(r.flags) }

// ReadSize returns the number of committed bytes available to read.
func (r *Ring) ReadSize() uint32 {
	head := atomic.LoadUint32(r.head)
	tail := atomic.LoadUint32(r.tail)
	return (head + r.size - tail) % r.size
}

// WriteSize returns the free space left for staging. One byte is reserved
// so a full ring is distinguishable from an empty one, and Write accepts
// only fewer than WriteSize bytes.
func (r *Ring) WriteSize() uint32 {
	tail := atomic.LoadUint32(r.tail)
	wrtn := atomic.LoadUint32(r.wrtn)
	return (tail + r.size - wrtn - 1) % r.size
}

// Read copies len(dst) committed bytes into dst, wrapping at the buffer
// end, and advances tail. Fails if fewer bytes are committed.
func (r *Ring) Read(dst []byte) bool {
	n := uint32(len(dst))
	if n == 0 || n >= r.size {
		panic("ring: read size out of range")
	}

	head := atomic.LoadUint32(r.head)
	tail := atomic.LoadUint32(r.tail)
	if avail := (head + r.size - tail) % r.size; n > avail {
		atomic.OrUint32(r.flags, FlagErrorReading)
		return false
	}

	if cont := r.size - tail; n > cont {
		copy(dst[:cont], r.buf[tail:])
		copy(dst[cont:], r.buf[:n-cont])
	} else {
		copy(dst, r.buf[tail:tail+n])
	}

	atomic.StoreUint32(r.tail, (tail+n)%r.size)
	atomic.AndUint32(r.flags, ^FlagErrorReading)
	return true
}

// Write stages len(src) bytes after the previously staged data. The bytes
// stay invisible to the consumer until Commit. On overflow the pending
// commit is poisoned and false is returned.
func (r *Ring) Write(src []byte) bool {
	n := uint32(len(src))
	if n == 0 || n >= r.size {
		panic("ring: write size out of range")
	}

	tail := atomic.LoadUint32(r.tail)
	wrtn := atomic.LoadUint32(r.wrtn)
	if room := (tail + r.size - wrtn - 1) % r.size; n >= room {
		atomic.OrUint32(r.flags, FlagInvalidateCommit|FlagErrorWriting)
		return false
	}

	if cont := r.size - wrtn; n > cont {
		copy(r.buf[wrtn:], src[:cont])
		copy(r.buf[:n-cont], src[cont:])
	} else {
		copy(r.buf[wrtn:wrtn+n], src)
	}

	atomic.StoreUint32(r.wrtn, (wrtn+n)%r.size)
	atomic.AndUint32(r.flags, ^FlagErrorWriting)
	return true
}

// Commit publishes everything staged since the last Commit by advancing
// head to wrtn. If any Write in the staged sequence failed, the staging
// cursor rolls back to head instead and false is returned; the reader
// never observes a partial record.
func (r *Ring) Commit() bool {
	if atomic.LoadUint32(r.flags)&FlagInvalidateCommit != 0 {
		atomic.StoreUint32(r.wrtn, atomic.LoadUint32(r.head))
		atomic.AndUint32(r.flags, ^(FlagInvalidateCommit | FlagErrorWriting))
		return false
	}
	atomic.StoreUint32(r.head, atomic.LoadUint32(r.wrtn))
	return true
}

var _ api.ByteRing = (*Ring)(nil)
