// File: api/endpoint.go
// Author: momentics <momentics@gmail.com>
//
// Duplex channel endpoint contract. A server and the child process it
// spawned each hold the mirror image of the same endpoint: the server's
// outgoing ring is the client's incoming ring and vice versa.

package api

// Endpoint is one side of a duplex shared-memory channel.
//
// Write/Commit/Wake operate on the outgoing ring and the peer's wake
// primitive; Read/ReadSize/WaitSecs operate on the incoming ring and the
// endpoint's own wake primitive. All ring operations are wait-free; only
// WaitSecs blocks, and never longer than its timeout.
type Endpoint interface {
	// Write stages src into the outgoing ring. Returns false on overflow.
	Write(src []byte) bool

	// Commit publishes everything staged since the previous Commit.
	Commit() bool

	// Send stages all parts, commits, and wakes the peer, in that order.
	// If any part fails to stage, the commit rolls back and no partial
	// record ever becomes visible; ErrRingFull is returned.
	Send(parts ...[]byte) error

	// Wake posts one token to the peer's wake primitive. Coalesced:
	// posting an already-signalled primitive stores no second token.
	Wake()

	// Read consumes len(dst) bytes from the incoming ring.
	Read(dst []byte) bool

	// ReadSize returns committed bytes pending in the incoming ring.
	ReadSize() uint32

	// WaitSecs blocks up to secs seconds for a token on the endpoint's
	// own wake primitive. Returns true iff a token was consumed.
	WaitSecs(secs uint32) bool
}
