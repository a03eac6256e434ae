//go:build windows

// File: internal/shm/shm_windows.go
// Author: momentics <momentics@gmail.com>
//
// Win32 shared memory via pagefile-backed file mapping objects in the
// Local\ namespace.

package shm

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/momentics/uibridge-ipc/api"
)

func objectName(name string) string { return `Local\` + name }

// Check returns true iff no mapping object of this name currently exists.
func Check(name string) bool {
	namep, err := windows.UTF16PtrFromString(objectName(name))
	if err != nil {
		return true
	}
	h, err := windows.OpenFileMapping(windows.FILE_MAP_READ, false, namep)
	if err != nil {
		return true
	}
	windows.CloseHandle(h)
	return false
}

// Server owns a created mapping object.
type Server struct {
	mem    []byte
	handle windows.Handle
}

// ServerCreate creates and maps a fresh named mapping of exactly size
// bytes. Creation is probe-then-create; the POSIX side carries the strict
// exclusivity guarantee.
func ServerCreate(name string, size uint32, memlock bool) (*Server, error) {
	if !ValidName(name) || size == 0 {
		return nil, api.ErrInvalidArgument
	}
	if !Check(name) {
		return nil, api.ErrNameInUse
	}

	namep, err := windows.UTF16PtrFromString(objectName(name))
	if err != nil {
		return nil, api.ErrInvalidArgument
	}

	h, err := windows.CreateFileMapping(windows.InvalidHandle, nil,
		windows.PAGE_READWRITE, 0, size, namep)
	if err != nil {
		return nil, fmt.Errorf("shm CreateFileMapping %q: %w", name, err)
	}

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(h)
		return nil, fmt.Errorf("%w: %v", api.ErrMapFailed, err)
	}

	mem := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	if memlock {
		_ = windows.VirtualLock(addr, uintptr(size))
	}

	return &Server{mem: mem, handle: h}, nil
}

// Bytes returns the mapped region.
func (s *Server) Bytes() []byte { return s.mem }

// Destroy unmaps the view and closes the mapping object. The kernel
// removes the name once the last handle is gone.
func (s *Server) Destroy() {
	if len(s.mem) != 0 {
		_ = windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&s.mem[0])))
	}
	windows.CloseHandle(s.handle)
	s.mem = nil
}

// Client borrows a view of an existing mapping object.
type Client struct {
	mem    []byte
	handle windows.Handle
}

// ClientAttach opens the existing name and maps size bytes.
func ClientAttach(name string, size uint32, memlock bool) (*Client, error) {
	if !ValidName(name) || size == 0 {
		return nil, api.ErrInvalidArgument
	}

	namep, err := windows.UTF16PtrFromString(objectName(name))
	if err != nil {
		return nil, api.ErrInvalidArgument
	}

	h, err := windows.OpenFileMapping(windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, false, namep)
	if err != nil {
		return nil, api.ErrNameNotFound
	}

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(h)
		return nil, fmt.Errorf("%w: %v", api.ErrMapFailed, err)
	}

	mem := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	if memlock {
		_ = windows.VirtualLock(addr, uintptr(size))
	}

	return &Client{mem: mem, handle: h}, nil
}

// Bytes returns the borrowed view.
func (c *Client) Bytes() []byte { return c.mem }

// Detach unmaps the view and closes the handle; never destroys the name.
func (c *Client) Detach() {
	if len(c.mem) != 0 {
		_ = windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&c.mem[0])))
	}
	windows.CloseHandle(c.handle)
	c.mem = nil
}
