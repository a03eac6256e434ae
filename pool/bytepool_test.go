// File: pool/bytepool_test.go
// Author: momentics <momentics@gmail.com>

package pool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/uibridge-ipc/pool"
)

func TestScratchGrowsAndReuses(t *testing.T) {
	var s pool.Scratch

	b := s.Grab(16)
	require.Len(t, b, 16)
	c1 := s.Cap()

	b = s.Grab(8)
	require.Len(t, b, 8)
	require.Equal(t, c1, s.Cap(), "shrinking grab must not reallocate")

	b = s.Grab(64)
	require.Len(t, b, 64)
	require.GreaterOrEqual(t, s.Cap(), 64)
}

func TestBytePoolReuse(t *testing.T) {
	bp := pool.NewBytePool(4, 32)
	b := bp.Get(16)
	require.Zero(t, len(b))
	require.GreaterOrEqual(t, cap(b), 32)
	bp.Put(b)

	b2 := bp.Get(8)
	require.GreaterOrEqual(t, cap(b2), 32)
}
