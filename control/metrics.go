// File: control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime counters for one channel endpoint. Lock-free; safe to read from
// a monitoring goroutine while the endpoint is live.

package control

import (
	"sync"
	"sync/atomic"
	"time"
)

// ChannelMetrics counts endpoint activity.
type ChannelMetrics struct {
	RecordsSent     atomic.Uint64
	RecordsReceived atomic.Uint64
	BytesWritten    atomic.Uint64
	BytesRead       atomic.Uint64
	Wakes           atomic.Uint64
	Waits           atomic.Uint64
	Overflows       atomic.Uint64
}

// Snapshot returns the current counter values keyed by name.
func (m *ChannelMetrics) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"records_sent":     m.RecordsSent.Load(),
		"records_received": m.RecordsReceived.Load(),
		"bytes_written":    m.BytesWritten.Load(),
		"bytes_read":       m.BytesRead.Load(),
		"wakes":            m.Wakes.Load(),
		"waits":            m.Waits.Load(),
		"overflows":        m.Overflows.Load(),
	}
}

// Registry holds named metric sets for all live channels of a process.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]*ChannelMetrics
	updated  time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]*ChannelMetrics),
	}
}

// Channel returns the metric set registered under name, creating it on
// first use.
func (r *Registry) Channel(name string) *ChannelMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.channels[name]
	if !ok {
		m = &ChannelMetrics{}
		r.channels[name] = m
		r.updated = time.Now()
	}
	return m
}

// GetSnapshot returns the latest counters of every registered channel.
func (r *Registry) GetSnapshot() map[string]map[string]uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]map[string]uint64, len(r.channels))
	for name, m := range r.channels {
		out[name] = m.Snapshot()
	}
	return out
}
