// File: channel/doc.go
// Package channel
// Author: momentics <momentics@gmail.com>
//
// Duplex shared-memory channel between a server process and the child it
// spawned. The server composes segment, rings and wake slots and owns
// their lifetime; the client attaches to the mirror image. Ring A always
// carries server->client traffic, ring B the reverse; the server waits on
// the first wake slot and posts the second, the client vice versa.
package channel
