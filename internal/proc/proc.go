// File: internal/proc/proc.go
// Author: momentics <momentics@gmail.com>
//
// Child-process supervisor. A reaper goroutine absorbs the exit exactly
// once; after that the handle keeps reporting not-running without
// touching kernel state again.

package proc

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"

	"github.com/momentics/uibridge-ipc/api"
)

// Option customizes process startup.
type Option func(*config)

type config struct {
	scrubEnv bool
}

// WithScrubbedEnv removes loader variables (LD_PRELOAD, LD_LIBRARY_PATH)
// from the child's environment. Hosts commonly inject these and they break
// foreign-toolkit children.
func WithScrubbedEnv() Option {
	return func(c *config) { c.scrubEnv = true }
}

// Proc supervises one spawned child process.
type Proc struct {
	cmd    *exec.Cmd
	done   chan struct{}
	exited atomic.Bool
}

// Start spawns argv[0] with the full argv. The child inherits stdio but no
// additional descriptors. Returns nil and an error if the spawn fails.
func Start(argv []string, opts ...Option) (*Proc, error) {
	if len(argv) == 0 {
		return nil, api.ErrInvalidArgument
	}
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if cfg.scrubEnv {
		cmd.Env = scrubbedEnv(os.Environ())
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrSpawnFailed, err)
	}

	p := &Proc{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		p.exited.Store(true)
		close(p.done)
	}()
	return p, nil
}

func scrubbedEnv(env []string) []string {
	out := env[:0:0]
	for _, kv := range env {
		if strings.HasPrefix(kv, "LD_PRELOAD=") || strings.HasPrefix(kv, "LD_LIBRARY_PATH=") {
			continue
		}
		out = append(out, kv)
	}
	return out
}

// Pid returns the child's process id.
func (p *Proc) Pid() int { return p.cmd.Process.Pid }

// IsRunning reports whether the child is still alive. Non-blocking and
// idempotent: once the reaper has observed the exit this stays false.
func (p *Proc) IsRunning() bool { return !p.exited.Load() }

// Stop terminates the child with grace: if it has not already exited, the
// platform terminate signal is sent and the exit is awaited. An unkillable
// child blocks here; that risk is accepted.
func (p *Proc) Stop() {
	select {
	case <-p.done:
		return
	default:
	}
	terminate(p.cmd.Process)
	<-p.done
}

var _ api.Supervisor = (*Proc)(nil)
