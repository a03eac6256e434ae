// File: internal/concurrency/executor_test.go
// Author: momentics <momentics@gmail.com>

package concurrency_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/uibridge-ipc/internal/concurrency"
)

func TestExecutorRunsTasksInOrder(t *testing.T) {
	e := concurrency.NewExecutor(1)
	defer e.Close()

	var got []int
	done := make(chan struct{})
	for i := 0; i < 100; i++ {
		i := i
		require.NoError(t, e.Submit(func() {
			got = append(got, i)
			if i == 99 {
				close(done)
			}
		}))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not run")
	}
	for i, v := range got {
		require.Equal(t, i, v)
	}
}

func TestExecutorSubmitAfterClose(t *testing.T) {
	e := concurrency.NewExecutor(1)
	e.Close()
	require.ErrorIs(t, e.Submit(func() {}), concurrency.ErrExecutorClosed)
}

func TestExecutorMultipleWorkers(t *testing.T) {
	e := concurrency.NewExecutor(4)
	defer e.Close()

	var n atomic.Int32
	for i := 0; i < 200; i++ {
		require.NoError(t, e.Submit(func() { n.Add(1) }))
	}
	deadline := time.Now().Add(2 * time.Second)
	for n.Load() != 200 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, int32(200), n.Load())
}
