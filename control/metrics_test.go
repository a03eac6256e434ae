// File: control/metrics_test.go
// Author: momentics <momentics@gmail.com>

package control_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/uibridge-ipc/control"
)

func TestChannelMetricsSnapshot(t *testing.T) {
	var m control.ChannelMetrics
	m.RecordsSent.Add(3)
	m.BytesWritten.Add(120)
	m.Wakes.Add(3)

	snap := m.Snapshot()
	require.Equal(t, uint64(3), snap["records_sent"])
	require.Equal(t, uint64(120), snap["bytes_written"])
	require.Equal(t, uint64(0), snap["records_received"])
}

func TestRegistry(t *testing.T) {
	r := control.NewRegistry()
	a := r.Channel("bridge-1")
	b := r.Channel("bridge-1")
	require.Same(t, a, b)

	a.Overflows.Add(1)
	snap := r.GetSnapshot()
	require.Equal(t, uint64(1), snap["bridge-1"]["overflows"])
}
