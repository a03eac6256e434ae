// File: fake/endpoint.go
// Package fake
// Author: momentics <momentics@gmail.com>
//
// In-process loopback channel for testing and development. Two real SPSC
// rings over ordinary memory plus one-slot chan wakers stand in for the
// shared segment and kernel semaphores, so protocol and bridge logic can
// be exercised without any platform dependency.

package fake

import (
	"time"

	"github.com/momentics/uibridge-ipc/api"
	"github.com/momentics/uibridge-ipc/internal/ring"
)

// Endpoint is one side of a loopback pair.
type Endpoint struct {
	send *ring.Ring
	recv *ring.Ring
	wake chan struct{}
	peer chan struct{}
}

// NewPair creates a connected loopback channel with the given per-ring
// capacity. The first endpoint plays the server role (ring A outgoing).
func NewPair(rbsize uint32) (*Endpoint, *Endpoint) {
	if rbsize == 0 {
		rbsize = 0x7FFF
	}
	memA := make([]byte, ring.HeaderSize+int(rbsize))
	memB := make([]byte, ring.HeaderSize+int(rbsize))
	ringA := ring.Init(memA, rbsize)
	ringB := ring.Init(memB, rbsize)

	wakeA := make(chan struct{}, 1)
	wakeB := make(chan struct{}, 1)

	a := &Endpoint{send: ringA, recv: ringB, wake: wakeA, peer: wakeB}
	b := &Endpoint{send: ringB, recv: ringA, wake: wakeB, peer: wakeA}
	return a, b
}

// Write stages src into the outgoing ring.
func (e *Endpoint) Write(src []byte) bool { return e.send.Write(src) }

// Commit publishes staged writes.
func (e *Endpoint) Commit() bool { return e.send.Commit() }

// Read consumes len(dst) bytes from the incoming ring.
func (e *Endpoint) Read(dst []byte) bool { return e.recv.Read(dst) }

// ReadSize returns committed bytes pending in the incoming ring.
func (e *Endpoint) ReadSize() uint32 { return e.recv.ReadSize() }

// Wake posts one coalesced token to the peer.
func (e *Endpoint) Wake() {
	select {
	case e.peer <- struct{}{}:
	default:
	}
}

// WaitSecs consumes a token or times out.
func (e *Endpoint) WaitSecs(secs uint32) bool {
	if secs == 0 {
		select {
		case <-e.wake:
			return true
		default:
			return false
		}
	}
	t := time.NewTimer(time.Duration(secs) * time.Second)
	defer t.Stop()
	select {
	case <-e.wake:
		return true
	case <-t.C:
		return false
	}
}

// Send stages all parts, commits, and wakes the peer.
func (e *Endpoint) Send(parts ...[]byte) error {
	ok := true
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		ok = e.Write(p) && ok
	}
	if !e.Commit() || !ok {
		return api.ErrRingFull
	}
	e.Wake()
	return nil
}

var _ api.Endpoint = (*Endpoint)(nil)
