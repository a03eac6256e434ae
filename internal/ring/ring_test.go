// File: internal/ring/ring_test.go
// Author: momentics <momentics@gmail.com>

package ring_test

import (
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/momentics/uibridge-ipc/internal/ring"
)

func newRing(t *testing.T, size uint32) *ring.Ring {
	t.Helper()
	mem := make([]byte, ring.HeaderSize+int(size))
	return ring.Init(mem, size)
}

func TestInitZeroState(t *testing.T) {
	r := newRing(t, 32)
	require.Equal(t, uint32(32), r.Size())
	require.Equal(t, uint32(0), r.ReadSize())
	require.Equal(t, uint32(31), r.WriteSize())
	require.Equal(t, uint32(0), r.Flags())
}

func TestAtSeesPeerState(t *testing.T) {
	mem := make([]byte, ring.HeaderSize+64)
	producer := ring.Init(mem, 64)
	require.True(t, producer.Write([]byte("hello")))
	require.True(t, producer.Commit())

	consumer := ring.At(mem)
	require.Equal(t, uint32(5), consumer.ReadSize())
	dst := make([]byte, 5)
	require.True(t, consumer.Read(dst))
	require.Equal(t, "hello", string(dst))
}

func TestMultiPartRecordRoundTrip(t *testing.T) {
	r := newRing(t, 64)

	var u32 [4]byte
	binary.NativeEndian.PutUint32(u32[:], 0xDEADBEEF)
	require.True(t, r.Write([]byte{1, 0, 0, 0}))
	require.True(t, r.Write([]byte{7, 0, 0, 0}))
	require.True(t, r.Write(u32[:]))
	require.True(t, r.Commit())

	got := make([]byte, 12)
	require.True(t, r.Read(got))
	want := append([]byte{1, 0, 0, 0, 7, 0, 0, 0}, u32[:]...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

// 7-byte records cycled through a 16-byte ring exercise every wrap offset.
func TestWrapAround(t *testing.T) {
	r := newRing(t, 16)

	for i := 0; i < 100; i++ {
		rec := []byte{byte(i), byte(i + 1), byte(i + 2), byte(i + 3), byte(i + 4), byte(i + 5), byte(i + 6)}
		require.True(t, r.Write(rec), "write %d", i)
		require.True(t, r.Commit(), "commit %d", i)

		got := make([]byte, 7)
		require.True(t, r.Read(got), "read %d", i)
		require.Equal(t, rec, got, "record %d", i)
		require.Equal(t, uint32(0), r.Flags())
	}
}

func TestStagedWriteInvisibleUntilCommit(t *testing.T) {
	r := newRing(t, 32)
	require.True(t, r.Write([]byte{1, 2, 3}))
	require.Equal(t, uint32(0), r.ReadSize())
	require.True(t, r.Commit())
	require.Equal(t, uint32(3), r.ReadSize())
}

func TestOverflowRollback(t *testing.T) {
	r := newRing(t, 16)

	first := []byte("abcdefghijkl") // 12 bytes
	require.True(t, r.Write(first))
	require.True(t, r.Commit())

	require.False(t, r.Write(make([]byte, 12)))
	require.NotZero(t, r.Flags()&ring.FlagInvalidateCommit)
	require.False(t, r.Commit())

	// Reader observes only the first record.
	got := make([]byte, 12)
	require.True(t, r.Read(got))
	require.Equal(t, first, got)
	require.Equal(t, uint32(0), r.ReadSize())

	// Flags clear after rollback; writing fits again.
	require.Equal(t, uint32(0), r.Flags())
	require.True(t, r.Write([]byte{1, 2, 3, 4}))
	require.True(t, r.Commit())
}

func TestCommitAtomicity(t *testing.T) {
	r := newRing(t, 16)

	require.True(t, r.Write([]byte{1, 2, 3, 4, 5}))
	require.False(t, r.Write(make([]byte, 11))) // overruns mid-record
	require.False(t, r.Commit())
	require.Equal(t, uint32(0), r.ReadSize(), "no partial record may be visible")

	// The ring is fully usable afterwards.
	require.True(t, r.Write([]byte{9, 9}))
	require.True(t, r.Commit())
	got := make([]byte, 2)
	require.True(t, r.Read(got))
	require.Equal(t, []byte{9, 9}, got)
}

func TestFullEmptySymmetry(t *testing.T) {
	r := newRing(t, 32)
	check := func() {
		require.Equal(t, uint32(32), r.ReadSize()+r.WriteSize()+1)
	}
	check()
	require.True(t, r.Write(make([]byte, 10)))
	require.True(t, r.Commit())
	check()
	require.True(t, r.Read(make([]byte, 4)))
	check()
	require.True(t, r.Read(make([]byte, 6)))
	check()
}

func TestReadBeyondCommitted(t *testing.T) {
	r := newRing(t, 32)
	require.True(t, r.Write([]byte{1, 2}))
	require.True(t, r.Commit())

	require.False(t, r.Read(make([]byte, 3)))
	require.NotZero(t, r.Flags()&ring.FlagErrorReading)

	// Error flag is sticky until the next successful read.
	require.True(t, r.Read(make([]byte, 2)))
	require.Zero(t, r.Flags()&ring.FlagErrorReading)
}

func TestSizeBoundsPanic(t *testing.T) {
	r := newRing(t, 16)
	require.Panics(t, func() { r.Write(nil) })
	require.Panics(t, func() { r.Write(make([]byte, 16)) })
	require.Panics(t, func() { r.Read(nil) })
	require.Panics(t, func() { r.Read(make([]byte, 16)) })
}

// One producer goroutine, one consumer goroutine, length-prefixed records.
func TestConcurrentProducerConsumer(t *testing.T) {
	const records = 2000
	mem := make([]byte, ring.HeaderSize+128)
	producer := ring.Init(mem, 128)
	consumer := ring.At(mem)

	go func() {
		var hdr [4]byte
		for i := 0; i < records; i++ {
			payload := make([]byte, 1+i%32)
			for j := range payload {
				payload[j] = byte(i + j)
			}
			binary.NativeEndian.PutUint32(hdr[:], uint32(len(payload)))
			for {
				if producer.Write(hdr[:]) && producer.Write(payload) {
					if producer.Commit() {
						break
					}
					continue
				}
				producer.Commit() // roll back and retry once there is room
				runtime.Gosched()
			}
		}
	}()

	var hdr [4]byte
	for i := 0; i < records; i++ {
		for consumer.ReadSize() < 4 {
			runtime.Gosched()
		}
		require.True(t, consumer.Read(hdr[:]))
		n := binary.NativeEndian.Uint32(hdr[:])
		payload := make([]byte, n)
		for consumer.ReadSize() < n {
			runtime.Gosched()
		}
		require.True(t, consumer.Read(payload))
		require.Equal(t, uint32(1+i%32), n, "record %d", i)
		for j := range payload {
			require.Equal(t, byte(i+j), payload[j], "record %d byte %d", i, j)
		}
	}
}
