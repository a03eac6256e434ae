// File: channel/client.go
// Author: momentics <momentics@gmail.com>
//
// Client side of the duplex channel: borrows a mapping of the server's
// segment and sees the mirror image of the server endpoint. Never
// re-initialises rings or wake slots; they are already live.

package channel

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/momentics/uibridge-ipc/api"
	"github.com/momentics/uibridge-ipc/internal/logging"
	"github.com/momentics/uibridge-ipc/internal/ring"
	"github.com/momentics/uibridge-ipc/internal/sem"
	"github.com/momentics/uibridge-ipc/internal/shm"
)

// Client borrows an attached channel.
type Client struct {
	endpoint
	seg *shm.Client
}

// ClientAttach opens the existing segment under name and wires up the
// mirror-image endpoint: ring B outgoing, ring A incoming. rbsize must
// equal the server's.
func ClientAttach(name string, rbsize uint32, opts ...Option) (*Client, error) {
	cfg := config{log: logging.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log.Named("ipc")

	if rbsize == 0 {
		rbsize = DefaultRingSize
	}

	seg, err := shm.ClientAttach(name, SegmentSize(rbsize), cfg.memlock)
	if err != nil {
		log.Errorf("client attach failed: could not attach shared memory segment: %v", err)
		return nil, err
	}

	mem := seg.Bytes()
	ringA := ring.At(ringWindow(mem, ringAOffset(rbsize), rbsize))
	ringB := ring.At(ringWindow(mem, ringBOffset(rbsize), rbsize))

	return &Client{
		endpoint: endpoint{
			send:    ringB,
			recv:    ringA,
			semWait: sem.At(mem[offSemClient:]),
			semPost: sem.At(mem[offSemServer:]),
			log:     log,
			metrics: cfg.metrics,
		},
		seg: seg,
	}, nil
}

// AttachWithRetry keeps attaching until the segment appears or maxWait
// elapses. Useful when the client races the server's construction.
func AttachWithRetry(name string, rbsize uint32, maxWait time.Duration, opts ...Option) (*Client, error) {
	ticker := backoff.NewTicker(&backoff.ExponentialBackOff{
		InitialInterval:     10 * time.Millisecond,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         250 * time.Millisecond,
	})
	defer ticker.Stop()

	deadline := time.Now().Add(maxWait)
	var lastErr error
	for range ticker.C {
		c, err := ClientAttach(name, rbsize, opts...)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, api.ErrNameNotFound) {
			return nil, err
		}
		lastErr = err
		if time.Now().After(deadline) {
			break
		}
	}
	return nil, lastErr
}

// Detach unmaps the borrowed segment. The name stays with the server.
func (c *Client) Detach() {
	c.seg.Detach()
}

var _ api.Endpoint = (*Client)(nil)
