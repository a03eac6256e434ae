// File: fake/endpoint_test.go
// Author: momentics <momentics@gmail.com>

package fake_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/uibridge-ipc/fake"
)

func TestLoopbackPair(t *testing.T) {
	a, b := fake.NewPair(64)

	require.NoError(t, a.Send([]byte("ping")))
	require.True(t, b.WaitSecs(1))
	got := make([]byte, 4)
	require.True(t, b.Read(got))
	require.Equal(t, "ping", string(got))

	require.NoError(t, b.Send([]byte("pong")))
	require.True(t, a.WaitSecs(1))
	require.True(t, a.Read(got))
	require.Equal(t, "pong", string(got))
}

func TestLoopbackWakeCoalesces(t *testing.T) {
	a, b := fake.NewPair(64)
	for i := 0; i < 5; i++ {
		a.Wake()
	}
	require.True(t, b.WaitSecs(0))
	require.False(t, b.WaitSecs(0))
}
