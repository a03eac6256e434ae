// File: protocol/writer.go
// Author: momentics <momentics@gmail.com>
//
// Record encoders. Each call stages one record and publishes it with the
// endpoint's commit-then-wake send.

package protocol

import (
	"encoding/binary"

	"github.com/momentics/uibridge-ipc/api"
)

var ne = binary.NativeEndian

// SendPortEvent publishes a port_event record: port index, payload size,
// port protocol format, then the payload bytes.
func SendPortEvent(ep api.Endpoint, portIndex, format uint32, buf []byte) error {
	var hdr [16]byte
	ne.PutUint32(hdr[0:], uint32(MsgPortEvent))
	ne.PutUint32(hdr[4:], portIndex)
	ne.PutUint32(hdr[8:], uint32(len(buf)))
	ne.PutUint32(hdr[12:], format)
	return ep.Send(hdr[:], buf)
}

// SendURIDMapReq publishes a urid_map_req record carrying the URI with a
// trailing NUL, client to server.
func SendURIDMapReq(ep api.Endpoint, uri string) error {
	b := append([]byte(uri), 0)
	var hdr [8]byte
	ne.PutUint32(hdr[0:], uint32(MsgURIDMapReq))
	ne.PutUint32(hdr[4:], uint32(len(b)))
	return ep.Send(hdr[:], b)
}

// SendURIDMapResp publishes a urid_map_resp record answering a map
// request, server to client.
func SendURIDMapResp(ep api.Endpoint, urid uint32, uri string) error {
	b := append([]byte(uri), 0)
	var hdr [12]byte
	ne.PutUint32(hdr[0:], uint32(MsgURIDMapResp))
	ne.PutUint32(hdr[4:], urid)
	ne.PutUint32(hdr[8:], uint32(len(b)))
	return ep.Send(hdr[:], b)
}

// SendWindowID publishes the child's plugged window id, client to server.
func SendWindowID(ep api.Endpoint, windowID uint64) error {
	var rec [12]byte
	ne.PutUint32(rec[0:], uint32(MsgWindowID))
	ne.PutUint64(rec[4:], windowID)
	return ep.Send(rec[:])
}
