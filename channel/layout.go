// File: channel/layout.go
// Author: momentics <momentics@gmail.com>
//
// Shared-segment layout. Offset 0 holds the server's wake slot, then the
// client's, then ring A (server->client) and ring B (client->server).
// Everything is addressed by offset from the segment base: the two
// processes map the segment at different addresses.

package channel

import (
	"github.com/momentics/uibridge-ipc/internal/ring"
	"github.com/momentics/uibridge-ipc/internal/sem"
)

// DefaultRingSize is the per-direction ring capacity in bytes.
const DefaultRingSize uint32 = 0x7FFF

const (
	offSemServer = 0
	offSemClient = sem.SlotSize
	semArea      = 2 * sem.SlotSize
)

// ringBlockSize pads each ring block to 8 bytes so the second ring header
// stays aligned for atomic access.
func ringBlockSize(rbsize uint32) uint32 {
	return ring.HeaderSize + (rbsize+7)&^uint32(7)
}

// SegmentSize returns the total shared-segment size for a given ring
// capacity. Both endpoints must compute it from the same rbsize.
func SegmentSize(rbsize uint32) uint32 {
	return semArea + 2*ringBlockSize(rbsize)
}

func ringAOffset(rbsize uint32) uint32 { return semArea }

func ringBOffset(rbsize uint32) uint32 { return semArea + ringBlockSize(rbsize) }

func ringWindow(mem []byte, off, rbsize uint32) []byte {
	return mem[off : off+ring.HeaderSize+rbsize]
}
