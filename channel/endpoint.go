// File: channel/endpoint.go
// Author: momentics <momentics@gmail.com>
//
// Endpoint operations shared by the server and client sides. Send encodes
// the mandatory ordering: stage, commit (release-publish), then wake the
// peer.

package channel

import (
	"go.uber.org/zap"

	"github.com/momentics/uibridge-ipc/api"
	"github.com/momentics/uibridge-ipc/control"
	"github.com/momentics/uibridge-ipc/internal/ring"
	"github.com/momentics/uibridge-ipc/internal/sem"
)

type endpoint struct {
	send    *ring.Ring
	recv    *ring.Ring
	semWait *sem.Sem // own slot, consumed by WaitSecs
	semPost *sem.Sem // peer's slot, posted by Wake
	log     *zap.SugaredLogger
	metrics *control.ChannelMetrics
}

// Write stages src into the outgoing ring. On overflow the pending commit
// is poisoned; the sticky ring flag keeps repeats out of the log.
func (e *endpoint) Write(src []byte) bool {
	quiet := e.send.Flags()&ring.FlagErrorWriting != 0
	if !e.send.Write(src) {
		if !quiet {
			e.log.Warnf("ring write of %d bytes overflows (%d free)", len(src), e.send.WriteSize())
		}
		if e.metrics != nil {
			e.metrics.Overflows.Add(1)
		}
		return false
	}
	if e.metrics != nil {
		e.metrics.BytesWritten.Add(uint64(len(src)))
	}
	return true
}

// Commit publishes everything staged since the previous Commit.
func (e *endpoint) Commit() bool {
	return e.send.Commit()
}

// Read consumes len(dst) bytes from the incoming ring.
func (e *endpoint) Read(dst []byte) bool {
	quiet := e.recv.Flags()&ring.FlagErrorReading != 0
	if !e.recv.Read(dst) {
		if !quiet {
			e.log.Warnf("ring read of %d bytes failed (%d available)", len(dst), e.recv.ReadSize())
		}
		return false
	}
	if e.metrics != nil {
		e.metrics.BytesRead.Add(uint64(len(dst)))
	}
	return true
}

// ReadSize returns committed bytes pending in the incoming ring.
func (e *endpoint) ReadSize() uint32 {
	return e.recv.ReadSize()
}

// Wake posts one token to the peer.
func (e *endpoint) Wake() {
	e.semPost.Wake()
	if e.metrics != nil {
		e.metrics.Wakes.Add(1)
	}
}

// WaitSecs blocks up to secs seconds for a token on the own slot.
func (e *endpoint) WaitSecs(secs uint32) bool {
	if e.metrics != nil {
		e.metrics.Waits.Add(1)
	}
	return e.semWait.WaitSecs(secs)
}

// Send stages all parts, commits, and wakes the peer. Empty parts are
// skipped. On any staging failure the commit rolls back and ErrRingFull
// is returned; the peer never sees a partial record.
func (e *endpoint) Send(parts ...[]byte) error {
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
	if e.metrics != nil {
		e.metrics.RecordsSent.Add(1)
	}
	return nil
}

var _ api.Endpoint = (*endpoint)(nil)
