// File: api/doc.go
// Package api
// Author: momentics <momentics@gmail.com>
//
// Contract layer for the uibridge-ipc library: interfaces and error types
// shared by the shared-memory segment, wake primitive, SPSC ring, channel
// endpoint and child-process supervisor implementations.
// All implementations live under internal/ and in the channel package;
// consumers program against this package only.
package api
