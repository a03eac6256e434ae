// File: protocol/dispatcher.go
// Author: momentics <momentics@gmail.com>
//
// Record decoder. Drain empties the incoming ring, dispatching each
// record to the matching handler. A read failure mid-record means the
// producer broke the commit contract; the channel cannot be resynced and
// the caller must tear it down.

package protocol

import (
	"go.uber.org/zap"

	"github.com/momentics/uibridge-ipc/api"
	"github.com/momentics/uibridge-ipc/internal/logging"
	"github.com/momentics/uibridge-ipc/pool"
)

// Handlers receives decoded records. Nil entries drop the record after it
// was consumed from the ring. Payload slices are only valid for the
// duration of the call; callbacks must copy what they keep.
type Handlers struct {
	PortEvent   func(portIndex, format uint32, buf []byte)
	URIDMapReq  func(uri string)
	URIDMapResp func(urid uint32, uri string)
	WindowID    func(windowID uint64)
}

// Dispatcher decodes records from one endpoint. Single consumer; not
// safe for concurrent Drain calls.
type Dispatcher struct {
	h       Handlers
	scratch pool.Scratch
	log     *zap.SugaredLogger
}

// NewDispatcher creates a dispatcher delivering to h.
func NewDispatcher(h Handlers, log *zap.SugaredLogger) *Dispatcher {
	if log == nil {
		log = logging.Nop()
	}
	return &Dispatcher{h: h, log: log}
}

// Drain decodes until the incoming ring is empty. Returns
// ErrFramingViolation if a record cannot be decoded; the channel must be
// stopped in that case.
func (d *Dispatcher) Drain(ep api.Endpoint) error {
	for ep.ReadSize() != 0 {
		if err := d.readRecord(ep); err != nil {
			d.log.Errorf("ringbuffer data race")
			return err
		}
	}
	return nil
}

func (d *Dispatcher) readRecord(ep api.Endpoint) error {
	var w [4]byte
	if !ep.Read(w[:]) {
		return api.ErrFramingViolation
	}

	switch MsgType(ne.Uint32(w[:])) {
	case MsgPortEvent:
		var hdr [12]byte
		if !ep.Read(hdr[:]) {
			return api.ErrFramingViolation
		}
		portIndex := ne.Uint32(hdr[0:])
		size := ne.Uint32(hdr[4:])
		format := ne.Uint32(hdr[8:])
		var buf []byte
		if size > 0 {
			buf = d.scratch.Grab(size)
			if !ep.Read(buf) {
				return api.ErrFramingViolation
			}
		}
		if d.h.PortEvent != nil {
			d.h.PortEvent(portIndex, format, buf)
		}

	case MsgURIDMapReq:
		if !ep.Read(w[:]) {
			return api.ErrFramingViolation
		}
		size := ne.Uint32(w[:])
		if size == 0 {
			return api.ErrFramingViolation
		}
		buf := d.scratch.Grab(size)
		if !ep.Read(buf) {
			return api.ErrFramingViolation
		}
		if d.h.URIDMapReq != nil {
			d.h.URIDMapReq(cString(buf))
		}

	case MsgURIDMapResp:
		var hdr [8]byte
		if !ep.Read(hdr[:]) {
			return api.ErrFramingViolation
		}
		urid := ne.Uint32(hdr[0:])
		size := ne.Uint32(hdr[4:])
		if size == 0 {
			return api.ErrFramingViolation
		}
		buf := d.scratch.Grab(size)
		if !ep.Read(buf) {
			return api.ErrFramingViolation
		}
		if d.h.URIDMapResp != nil {
			d.h.URIDMapResp(urid, cString(buf))
		}

	case MsgWindowID:
		var wid [8]byte
		if !ep.Read(wid[:]) {
			return api.ErrFramingViolation
		}
		if d.h.WindowID != nil {
			d.h.WindowID(ne.Uint64(wid[:]))
		}

	default:
		// Includes the reserved touch_event and null: nothing ever
		// commits these, so seeing one means the stream is torn.
		return api.ErrFramingViolation
	}
	return nil
}

// cString returns the string up to the first NUL.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
