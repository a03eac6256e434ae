// File: channel/server.go
// Author: momentics <momentics@gmail.com>
//
// Server side of the duplex channel: creates the segment, lays out rings
// and wake slots, spawns the child bound to the segment name, and owns
// the whole arrangement until Stop.

package channel

import (
	"fmt"

	"github.com/momentics/uibridge-ipc/api"
	"github.com/momentics/uibridge-ipc/internal/logging"
	"github.com/momentics/uibridge-ipc/internal/proc"
	"github.com/momentics/uibridge-ipc/internal/ring"
	"github.com/momentics/uibridge-ipc/internal/sem"
	"github.com/momentics/uibridge-ipc/internal/shm"
)

// Server owns a channel: segment, rings, wake slots and the supervised
// child process.
type Server struct {
	endpoint
	seg       *shm.Server
	semServer *sem.Sem
	semClient *sem.Sem
	proc      *proc.Proc
	name      string
}

// ServerStart creates the shared segment under name, initialises both
// rings and both wake slots, and spawns the child with the given argv.
// Any failure rolls back in reverse order and returns a nil server.
func ServerStart(argv []string, name string, rbsize uint32, opts ...Option) (*Server, error) {
	cfg := config{log: logging.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log.Named("ipc")

	if rbsize == 0 {
		rbsize = DefaultRingSize
	}

	seg, err := shm.ServerCreate(name, SegmentSize(rbsize), cfg.memlock)
	if err != nil {
		log.Errorf("server start failed: could not create shared memory segment: %v", err)
		return nil, err
	}

	mem := seg.Bytes()
	for i := range mem {
		mem[i] = 0
	}

	ringA := ring.Init(ringWindow(mem, ringAOffset(rbsize), rbsize), rbsize)
	ringB := ring.Init(ringWindow(mem, ringBOffset(rbsize), rbsize), rbsize)

	semServer := sem.At(mem[offSemServer:])
	semServer.Init()
	semClient := sem.At(mem[offSemClient:])
	semClient.Init()

	p, err := proc.Start(argv, cfg.procOpts...)
	if err != nil {
		log.Errorf("server start failed: %v", err)
		semServer.Destroy()
		semClient.Destroy()
		seg.Destroy()
		return nil, fmt.Errorf("channel %q: %w", name, err)
	}

	return &Server{
		endpoint: endpoint{
			send:    ringA,
			recv:    ringB,
			semWait: semServer,
			semPost: semClient,
			log:     log,
			metrics: cfg.metrics,
		},
		seg:       seg,
		semServer: semServer,
		semClient: semClient,
		proc:      p,
		name:      name,
	}, nil
}

// Name returns the segment name the child was bound to.
func (s *Server) Name() string { return s.name }

// ChildPid returns the spawned child's process id.
func (s *Server) ChildPid() int { return s.proc.Pid() }

// IsRunning reports whether the spawned child is still alive.
func (s *Server) IsRunning() bool { return s.proc.IsRunning() }

// Stop tears the channel down: terminate the child, destroy both wake
// slots, unmap and unlink the segment. Always runs to completion.
func (s *Server) Stop() {
	s.proc.Stop()
	s.semServer.Destroy()
	s.semClient.Destroy()
	s.seg.Destroy()
	s.log.Debugf("channel %q stopped", s.name)
}

var _ api.Endpoint = (*Server)(nil)
var _ api.Supervisor = (*Server)(nil)
