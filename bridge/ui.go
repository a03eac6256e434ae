// File: bridge/ui.go
// Author: momentics <momentics@gmail.com>
//
// Child-process side of the bridge. A mutex serializes ring consumption
// and table access the way the C client serialized everything through
// the toolkit main context; MapURI deliberately blocks its caller, the
// UI thread is the only URID consumer.

package bridge

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/uibridge-ipc/api"
	"github.com/momentics/uibridge-ipc/channel"
	"github.com/momentics/uibridge-ipc/internal/concurrency"
	"github.com/momentics/uibridge-ipc/internal/logging"
	"github.com/momentics/uibridge-ipc/pool"
	"github.com/momentics/uibridge-ipc/protocol"
)

// UIConfig wires the child-side callbacks.
type UIConfig struct {
	// PortEvent receives port events coming down from the host. Invoked
	// on a dedicated executor goroutine, in delivery order, with a
	// payload copy the callback may keep until it returns.
	PortEvent func(portIndex, format uint32, buf []byte)

	Logger *zap.SugaredLogger
}

// UI drives the child side of an established channel.
type UI struct {
	ep     api.Endpoint
	cfg    UIConfig
	disp   *protocol.Dispatcher
	exec   *concurrency.Executor
	bp     *pool.BytePool
	log    *zap.SugaredLogger
	detach func()
	closed atomic.Bool

	mu      sync.Mutex
	table   protocol.URIDTable
	waiting string

	loopMu   sync.Mutex
	loopDone chan struct{}
}

// NewUI wraps an endpoint in the child role.
func NewUI(ep api.Endpoint, cfg UIConfig) *UI {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.Named("bridge")

	u := &UI{
		ep:   ep,
		cfg:  cfg,
		exec: concurrency.NewExecutor(1),
		bp:   pool.NewBytePool(8, 256),
		log:  log,
	}
	u.disp = protocol.NewDispatcher(protocol.Handlers{
		PortEvent:   u.onPortEvent,
		URIDMapResp: u.onMapResponse,
	}, log)
	return u
}

// Dial attaches to the named segment, retrying until the server has
// created it, and wraps the client endpoint in the UI role.
func Dial(name string, rbsize uint32, maxWait time.Duration, cfg UIConfig, opts ...channel.Option) (*UI, error) {
	cli, err := channel.AttachWithRetry(name, rbsize, maxWait, opts...)
	if err != nil {
		return nil, err
	}
	u := NewUI(cli, cfg)
	u.detach = cli.Detach
	return u, nil
}

func (u *UI) onPortEvent(portIndex, format uint32, buf []byte) {
	if u.cfg.PortEvent == nil {
		return
	}
	b := append(u.bp.Get(len(buf)), buf...)
	err := u.exec.Submit(func() {
		u.cfg.PortEvent(portIndex, format, b)
		u.bp.Put(b)
	})
	if err != nil {
		u.bp.Put(b)
	}
}

func (u *UI) onMapResponse(urid uint32, uri string) {
	u.table.Add(urid, uri)
	if u.waiting == uri {
		u.waiting = ""
	}
}

// PortEvent forwards one widget change up to the host.
func (u *UI) PortEvent(portIndex, format uint32, buf []byte) error {
	return protocol.SendPortEvent(u.ep, portIndex, format, buf)
}

// AnnounceWindow tells the host which window id the child plugged into
// the parent.
func (u *UI) AnnounceWindow(windowID uint64) error {
	return protocol.SendWindowID(u.ep, windowID)
}

// Idle drains every pending record from the host.
func (u *UI) Idle() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.disp.Drain(u.ep)
}

// MapURI returns the URID interned for uri, asking the host and blocking
// for the response when the table misses. Returns 0 when the mapping
// could not be resolved.
func (u *UI) MapURI(uri string) uint32 {
	u.mu.Lock()
	if urid, ok := u.table.Lookup(uri); ok {
		u.mu.Unlock()
		return urid
	}
	u.waiting = uri
	u.mu.Unlock()

	if err := protocol.SendURIDMapReq(u.ep, uri); err != nil {
		u.log.Errorf("uri map failed: %v", err)
		return 0
	}

	for u.ep.WaitSecs(1) {
		if err := u.Idle(); err != nil {
			break
		}
		u.mu.Lock()
		done := u.waiting == ""
		u.mu.Unlock()
		if done {
			break
		}
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if urid, ok := u.table.Lookup(uri); ok {
		return urid
	}
	u.log.Errorf("uri map failed: no response for %q", uri)
	return 0
}

// Run pumps the channel until ctx is cancelled, Close is called, or a
// framing violation breaks the channel.
func (u *UI) Run(ctx context.Context) error {
	done := make(chan struct{})
	u.loopMu.Lock()
	u.loopDone = done
	u.loopMu.Unlock()
	defer close(done)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for !u.closed.Load() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if u.ep.WaitSecs(1) {
				if err := u.Idle(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	return g.Wait()
}

// Close stops delivery and detaches from the segment when the UI was
// created through Dial. A live Run loop is waited out before the mapping
// goes away. Must not be called from a PortEvent callback.
func (u *UI) Close() {
	if !u.closed.CompareAndSwap(false, true) {
		return
	}
	u.loopMu.Lock()
	done := u.loopDone
	u.loopMu.Unlock()
	if done != nil {
		<-done
	}
	u.exec.Close()
	if u.detach != nil {
		u.detach()
	}
}
