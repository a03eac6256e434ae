// File: bridge/host.go
// Author: momentics <momentics@gmail.com>
//
// Plugin-host side of the bridge.

package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/momentics/uibridge-ipc/api"
	"github.com/momentics/uibridge-ipc/internal/logging"
	"github.com/momentics/uibridge-ipc/protocol"
)

// HostConfig wires the host callbacks.
type HostConfig struct {
	// WriteFunc receives port events coming up from the child UI.
	// The payload is only valid for the duration of the call.
	WriteFunc func(portIndex, format uint32, buf []byte)

	// MapURI is the host's URID mapper; it must return a stable id per
	// URI, never 0 for a valid one.
	MapURI func(uri string) uint32

	// IsRunning optionally reports child liveness (the channel server's
	// IsRunning). Serve and WaitWindowID stop early when it turns false.
	IsRunning func() bool

	Logger *zap.SugaredLogger
}

// Host drives the host side of an established channel.
type Host struct {
	ep   api.Endpoint
	cfg  HostConfig
	disp *protocol.Dispatcher
	log  *zap.SugaredLogger

	mu       sync.Mutex
	windowID uint64
	windowOK bool
}

// NewHost wraps an endpoint in the host role. The endpoint's incoming
// ring must not be drained by anyone else.
func NewHost(ep api.Endpoint, cfg HostConfig) *Host {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.Named("bridge")

	h := &Host{ep: ep, cfg: cfg, log: log}
	h.disp = protocol.NewDispatcher(protocol.Handlers{
		PortEvent: func(portIndex, format uint32, buf []byte) {
			if cfg.WriteFunc != nil {
				cfg.WriteFunc(portIndex, format, buf)
			}
		},
		URIDMapReq: h.onMapRequest,
		WindowID: func(windowID uint64) {
			h.windowID = windowID
			h.windowOK = true
		},
	}, log)
	return h
}

func (h *Host) onMapRequest(uri string) {
	var urid uint32
	if h.cfg.MapURI != nil {
		urid = h.cfg.MapURI(uri)
	}
	if err := protocol.SendURIDMapResp(h.ep, urid, uri); err != nil {
		h.log.Errorf("urid map response for %q dropped: %v", uri, err)
	}
}

// PortEvent relays one control-port change down to the child UI.
func (h *Host) PortEvent(portIndex, format uint32, buf []byte) error {
	return protocol.SendPortEvent(h.ep, portIndex, format, buf)
}

// Idle drains every pending record from the child. Call it from the
// host's idle callback. A framing error is fatal to the channel.
func (h *Host) Idle() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disp.Drain(h.ep)
}

// WindowID returns the child's announced window id, if any yet.
func (h *Host) WindowID() (uint64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.windowID, h.windowOK
}

// WaitWindowID pumps the channel until the child announces the id of the
// window it plugged into the parent, or maxWait elapses.
func (h *Host) WaitWindowID(maxWait time.Duration) (uint64, error) {
	deadline := time.Now().Add(maxWait)
	for {
		if wid, ok := h.WindowID(); ok {
			return wid, nil
		}
		if h.cfg.IsRunning != nil && !h.cfg.IsRunning() {
			return 0, api.ErrPeerDead
		}
		if time.Now().After(deadline) {
			return 0, fmt.Errorf("no window id from child: %w", api.ErrPeerDead)
		}
		h.ep.WaitSecs(1)
		if err := h.Idle(); err != nil {
			return 0, err
		}
	}
}

// Serve pumps the channel until ctx is cancelled, the child exits, or a
// framing violation breaks the channel. Alternative to idle-driven use.
func (h *Host) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if h.cfg.IsRunning != nil && !h.cfg.IsRunning() {
			return api.ErrPeerDead
		}
		if h.ep.WaitSecs(1) {
			if err := h.Idle(); err != nil {
				return err
			}
		}
	}
}
