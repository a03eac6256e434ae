//go:build !windows

// File: internal/proc/proc_unix_test.go
// Author: momentics <momentics@gmail.com>

package proc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/uibridge-ipc/api"
	"github.com/momentics/uibridge-ipc/internal/proc"
)

func TestShortLivedChildReaped(t *testing.T) {
	p, err := proc.Start([]string{"/bin/echo", "hi"})
	require.NoError(t, err)

	deadline := time.Now().Add(3 * time.Second)
	for p.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.False(t, p.IsRunning())

	// Idempotent after the exit was absorbed.
	require.False(t, p.IsRunning())

	start := time.Now()
	p.Stop()
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestStopTerminatesSleepingChild(t *testing.T) {
	p, err := proc.Start([]string{"/bin/sleep", "30"})
	require.NoError(t, err)
	require.True(t, p.IsRunning())

	start := time.Now()
	p.Stop()
	require.Less(t, time.Since(start), 3*time.Second)
	require.False(t, p.IsRunning())
}

func TestStartFailure(t *testing.T) {
	_, err := proc.Start([]string{"/nonexistent/binary"})
	require.ErrorIs(t, err, api.ErrSpawnFailed)

	_, err = proc.Start(nil)
	require.ErrorIs(t, err, api.ErrInvalidArgument)
}
