// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
//
// Byte buffer reuse for the message decoders. Scratch mirrors the
// grow-on-demand receive buffer of the C bridge loops; BytePool recycles
// payload copies handed across goroutines.

package pool

// Scratch is a grow-on-demand buffer owned by a single decoder goroutine.
// Grab returns a window that stays valid until the next Grab.
type Scratch struct {
	buf []byte
}

// Grab returns a length-n window over the scratch storage, growing the
// storage when needed. Contents are unspecified.
func (s *Scratch) Grab(n uint32) []byte {
	if uint32(cap(s.buf)) < n {
		s.buf = make([]byte, n)
	}
	return s.buf[:n:cap(s.buf)]
}

// Cap returns the current storage capacity.
func (s *Scratch) Cap() int { return cap(s.buf) }

// BytePool recycles byte slices of at least a minimum capacity.
type BytePool struct {
	bufs chan []byte
	size int
}

// NewBytePool creates a pool holding up to capacity buffers of size bytes.
func NewBytePool(capacity, size int) *BytePool {
	return &BytePool{
		bufs: make(chan []byte, capacity),
		size: size,
	}
}

// Get returns a zero-length buffer with at least n capacity.
func (bp *BytePool) Get(n int) []byte {
	if n < bp.size {
		n = bp.size
	}
	select {
	case b := <-bp.bufs:
		if cap(b) >= n {
			return b[:0]
		}
	default:
	}
	return make([]byte, 0, n)
}

// Put returns a buffer to the pool; oversized pools discard.
func (bp *BytePool) Put(b []byte) {
	select {
	case bp.bufs <- b:
	default:
	}
}
