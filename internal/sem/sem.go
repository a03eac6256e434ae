// File: internal/sem/sem.go
// Author: momentics <momentics@gmail.com>
//
// One-slot cross-process wake primitive embedded in shared memory.
// The state is a single 32-bit word: 0 = no token, 1 = one token pending.
// Posting an already-signalled primitive stores no second token.
// Platform-specific sleeping lives in sem_linux.go / sem_windows.go /
// sem_stub.go; the lock-free fast path is shared.

package sem

import (
	"sync/atomic"
	"time"
	"unsafe"
)

// SlotSize is the on-segment footprint of one wake primitive in bytes.
// The word itself is 4 bytes; the rest keeps neighbouring slots aligned.
const SlotSize = 8

// Sem is a view of a wake primitive inside a mapped segment window.
type Sem struct {
	word *uint32
}

// At returns a view of the wake primitive at the start of mem.
func At(mem []byte) *Sem {
	if len(mem) < SlotSize {
		panic("sem: window smaller than slot")
	}
	return &Sem{word: (*uint32)(unsafe.Pointer(&mem[0]))}
}

// Init resets the primitive to its zero-token state. Segment owner only.
func (s *Sem) Init() {
	atomic.StoreUint32(s.word, 0)
}

// Destroy invalidates the primitive and releases any sleeping waiter.
func (s *Sem) Destroy() {
	atomic.StoreUint32(s.word, 1)
	wakeSleepers(s.word)
}

// Wake posts one token. Coalesced: if a token is already pending the call
// is a no-op. The kernel wake is issued on every 0->1 transition so a
// sleeping waiter is never left to ride out its timeout.
func (s *Sem) Wake() {
	if atomic.SwapUint32(s.word, 1) == 0 {
		wakeSleepers(s.word)
	}
}

// WaitSecs blocks up to secs seconds until a token can be consumed.
// Returns true iff a token was consumed. Restartable on spurious wakeups;
// always returns within the timeout.
func (s *Sem) WaitSecs(secs uint32) bool {
	deadline := time.Now().Add(time.Duration(secs) * time.Second)
	for {
		if atomic.CompareAndSwapUint32(s.word, 1, 0) {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			// One last chance in case the poster raced the deadline.
			return atomic.CompareAndSwapUint32(s.word, 1, 0)
		}
		if !sleepOnWord(s.word, remaining) {
			return atomic.CompareAndSwapUint32(s.word, 1, 0)
		}
	}
}
