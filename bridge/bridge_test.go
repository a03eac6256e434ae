// File: bridge/bridge_test.go
// Author: momentics <momentics@gmail.com>

package bridge_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/uibridge-ipc/api"
	"github.com/momentics/uibridge-ipc/bridge"
	"github.com/momentics/uibridge-ipc/fake"
)

type portEvent struct {
	index, format uint32
	buf           []byte
}

func TestWindowIDHandshake(t *testing.T) {
	hostEP, uiEP := fake.NewPair(256)
	host := bridge.NewHost(hostEP, bridge.HostConfig{})
	ui := bridge.NewUI(uiEP, bridge.UIConfig{})
	defer ui.Close()

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = ui.AnnounceWindow(0xAB12)
	}()

	wid, err := host.WaitWindowID(3 * time.Second)
	require.NoError(t, err)
	require.Equal(t, uint64(0xAB12), wid)

	// Idempotent once recorded.
	got, ok := host.WindowID()
	require.True(t, ok)
	require.Equal(t, uint64(0xAB12), got)
}

func TestPortEventDownstream(t *testing.T) {
	hostEP, uiEP := fake.NewPair(256)
	host := bridge.NewHost(hostEP, bridge.HostConfig{})

	events := make(chan portEvent, 1)
	ui := bridge.NewUI(uiEP, bridge.UIConfig{
		PortEvent: func(portIndex, format uint32, buf []byte) {
			events <- portEvent{portIndex, format, append([]byte(nil), buf...)}
		},
	})
	defer ui.Close()

	require.NoError(t, host.PortEvent(7, 0, []byte{0xDE, 0xAD, 0xBE, 0xEF}))
	require.True(t, uiEP.WaitSecs(1))
	require.NoError(t, ui.Idle())

	select {
	case ev := <-events:
		require.Equal(t, uint32(7), ev.index)
		require.Equal(t, uint32(0), ev.format)
		require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, ev.buf)
	case <-time.After(2 * time.Second):
		t.Fatal("port event not delivered")
	}
}

func TestPortEventUpstream(t *testing.T) {
	hostEP, uiEP := fake.NewPair(256)

	events := make(chan portEvent, 1)
	host := bridge.NewHost(hostEP, bridge.HostConfig{
		WriteFunc: func(portIndex, format uint32, buf []byte) {
			events <- portEvent{portIndex, format, append([]byte(nil), buf...)}
		},
	})
	ui := bridge.NewUI(uiEP, bridge.UIConfig{})
	defer ui.Close()

	require.NoError(t, ui.PortEvent(3, 1, []byte{9}))
	require.True(t, hostEP.WaitSecs(1))
	require.NoError(t, host.Idle())

	ev := <-events
	require.Equal(t, uint32(3), ev.index)
	require.Equal(t, uint32(1), ev.format)
	require.Equal(t, []byte{9}, ev.buf)
}

func TestSynchronousURIDMap(t *testing.T) {
	hostEP, uiEP := fake.NewPair(256)

	var mapCalls atomic.Int32
	host := bridge.NewHost(hostEP, bridge.HostConfig{
		MapURI: func(uri string) uint32 {
			mapCalls.Add(1)
			if uri == "http://x" {
				return 42
			}
			return 0
		},
	})
	ui := bridge.NewUI(uiEP, bridge.UIConfig{})
	defer ui.Close()

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- host.Serve(ctx) }()

	require.Equal(t, uint32(42), ui.MapURI("http://x"))

	// The second map hits the interned table, not the host.
	require.Equal(t, uint32(42), ui.MapURI("http://x"))
	require.Equal(t, int32(1), mapCalls.Load())

	cancel()
	require.ErrorIs(t, <-served, context.Canceled)
}

func TestMapURIWithoutResponder(t *testing.T) {
	_, uiEP := fake.NewPair(256)
	ui := bridge.NewUI(uiEP, bridge.UIConfig{})
	defer ui.Close()

	require.Equal(t, uint32(0), ui.MapURI("http://nobody"))
}

func TestUIRunDeliversEvents(t *testing.T) {
	hostEP, uiEP := fake.NewPair(256)
	host := bridge.NewHost(hostEP, bridge.HostConfig{})

	events := make(chan portEvent, 1)
	ui := bridge.NewUI(uiEP, bridge.UIConfig{
		PortEvent: func(portIndex, format uint32, buf []byte) {
			events <- portEvent{portIndex, format, append([]byte(nil), buf...)}
		},
	})
	defer ui.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ui.Run(ctx) }()

	require.NoError(t, host.PortEvent(1, 0, []byte{7, 7}))

	select {
	case ev := <-events:
		require.Equal(t, []byte{7, 7}, ev.buf)
	case <-time.After(3 * time.Second):
		t.Fatal("run loop did not deliver")
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestHostServeDetectsDeadPeer(t *testing.T) {
	hostEP, _ := fake.NewPair(64)
	host := bridge.NewHost(hostEP, bridge.HostConfig{
		IsRunning: func() bool { return false },
	})
	require.ErrorIs(t, host.Serve(context.Background()), api.ErrPeerDead)
}
