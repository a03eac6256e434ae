//go:build linux

// File: internal/shm/shm_linux.go
// Author: momentics <momentics@gmail.com>
//
// POSIX shared memory via /dev/shm. O_EXCL on creation guarantees that of
// two concurrent creators of the same name exactly one succeeds.

package shm

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/uibridge-ipc/api"
)

const shmDir = "/dev/shm/"

func objectPath(name string) string { return shmDir + name }

// Check returns true iff no segment of this name currently exists.
// Race tolerant: only a hint for name selection.
func Check(name string) bool {
	fd, err := unix.Open(objectPath(name), unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return true
	}
	unix.Close(fd)
	return false
}

// Server owns a created segment: it unlinks the name on Destroy.
type Server struct {
	mem  []byte
	fd   int
	path string
}

// ServerCreate creates and maps a fresh named segment of exactly size
// bytes. Fails if the name exists. On any failure the name is left
// unlinked and nothing is leaked. Memory locking is best-effort.
func ServerCreate(name string, size uint32, memlock bool) (*Server, error) {
	if !ValidName(name) || size == 0 {
		return nil, api.ErrInvalidArgument
	}
	path := objectPath(name)

	fd, err := unix.Open(path, unix.O_CREAT|unix.O_EXCL|unix.O_RDWR|unix.O_CLOEXEC, 0o666)
	if err != nil {
		if errors.Is(err, unix.EEXIST) {
			return nil, api.ErrNameInUse
		}
		return nil, fmt.Errorf("shm open %q: %w", name, err)
	}

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		unix.Unlink(path)
		return nil, fmt.Errorf("shm ftruncate %q: %w", name, err)
	}

	mem, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		unix.Unlink(path)
		return nil, fmt.Errorf("%w: %v", api.ErrMapFailed, err)
	}

	if memlock {
		_ = unix.Mlock(mem)
	}

	return &Server{mem: mem, fd: fd, path: path}, nil
}

// Bytes returns the mapped region.
func (s *Server) Bytes() []byte { return s.mem }

// Destroy unmaps the segment and unlinks its name.
func (s *Server) Destroy() {
	_ = unix.Munmap(s.mem)
	unix.Close(s.fd)
	unix.Unlink(s.path)
	s.mem = nil
}

// Client borrows a mapping of an existing segment; Detach never unlinks.
type Client struct {
	mem []byte
	fd  int
}

// ClientAttach opens the existing name and maps size bytes. The size must
// match what the server created.
func ClientAttach(name string, size uint32, memlock bool) (*Client, error) {
	if !ValidName(name) || size == 0 {
		return nil, api.ErrInvalidArgument
	}

	fd, err := unix.Open(objectPath(name), unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		if errors.Is(err, unix.ENOENT) {
			return nil, api.ErrNameNotFound
		}
		return nil, fmt.Errorf("shm open %q: %w", name, err)
	}

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("shm fstat %q: %w", name, err)
	}
	if st.Size < int64(size) {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: segment smaller than requested size", api.ErrMapFailed)
	}

	mem, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %v", api.ErrMapFailed, err)
	}

	if memlock {
		_ = unix.Mlock(mem)
	}

	return &Client{mem: mem, fd: fd}, nil
}

// Bytes returns the borrowed mapping.
func (c *Client) Bytes() []byte { return c.mem }

// Detach unmaps only; the name stays owned by the server.
func (c *Client) Detach() {
	_ = unix.Munmap(c.mem)
	unix.Close(c.fd)
	c.mem = nil
}
