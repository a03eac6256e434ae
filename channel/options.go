// File: channel/options.go
// Author: momentics <momentics@gmail.com>
//
// Functional options shared by server and client endpoint constructors.

package channel

import (
	"go.uber.org/zap"

	"github.com/momentics/uibridge-ipc/control"
	"github.com/momentics/uibridge-ipc/internal/proc"
)

// Option customizes endpoint construction.
type Option func(*config)

type config struct {
	log      *zap.SugaredLogger
	metrics  *control.ChannelMetrics
	memlock  bool
	procOpts []proc.Option
}

// WithLogger attaches a logger; endpoint lines are emitted under the
// "ipc" name.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *config) { c.log = log }
}

// WithMetrics attaches a counter set updated by every endpoint operation.
func WithMetrics(m *control.ChannelMetrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithMemlock requests best-effort locking of the segment into RAM.
func WithMemlock() Option {
	return func(c *config) { c.memlock = true }
}

// WithScrubbedEnv strips loader variables from the spawned child's
// environment. Server side only.
func WithScrubbedEnv() Option {
	return func(c *config) { c.procOpts = append(c.procOpts, proc.WithScrubbedEnv()) }
}
