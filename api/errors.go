// File: api/errors.go
// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types for the uibridge-ipc library.

package api

import "fmt"

// Errors surfaced by the IPC core.
var (
	ErrOutOfMemory      = fmt.Errorf("out of memory")
	ErrNameInUse        = fmt.Errorf("segment name already in use")
	ErrNameNotFound     = fmt.Errorf("segment name not found")
	ErrMapFailed        = fmt.Errorf("segment mapping failed")
	ErrSemFailed        = fmt.Errorf("wake primitive setup failed")
	ErrSpawnFailed      = fmt.Errorf("child process spawn failed")
	ErrRingFull         = fmt.Errorf("ring buffer full")
	ErrRingEmpty        = fmt.Errorf("ring buffer empty")
	ErrFramingViolation = fmt.Errorf("ringbuffer data race")
	ErrPeerDead         = fmt.Errorf("peer process no longer running")
	ErrNotSupported     = fmt.Errorf("operation not supported on this platform")
	ErrInvalidArgument  = fmt.Errorf("invalid argument")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeOOM
	ErrCodeNameInUse
	ErrCodeNameNotFound
	ErrCodeMapFailed
	ErrCodeSemFailed
	ErrCodeSpawnFailed
	ErrCodeRingFull
	ErrCodeRingEmpty
	ErrCodeFramingViolation
	ErrCodePeerDead
	ErrCodeInternal
)
