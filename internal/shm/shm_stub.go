//go:build !linux && !windows

// File: internal/shm/shm_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub for platforms without a supported shared-memory backend.

package shm

import "github.com/momentics/uibridge-ipc/api"

func Check(name string) bool { return true }

type Server struct{ mem []byte }

func ServerCreate(name string, size uint32, memlock bool) (*Server, error) {
	return nil, api.ErrNotSupported
}

func (s *Server) Bytes() []byte { return s.mem }
func (s *Server) Destroy()      {}

type Client struct{ mem []byte }

func ClientAttach(name string, size uint32, memlock bool) (*Client, error) {
	return nil, api.ErrNotSupported
}

func (c *Client) Bytes() []byte { return c.mem }
func (c *Client) Detach()       {}
