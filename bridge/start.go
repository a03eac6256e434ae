// File: bridge/start.go
// Author: momentics <momentics@gmail.com>
//
// Host-side bootstrap: free name selection, channel creation, child
// spawn, host wrapping. The child argv contract is fixed: binary, plugin
// URI, segment name, parent window id in decimal.

package bridge

import (
	"strconv"

	"github.com/momentics/uibridge-ipc/channel"
)

// ChildArgv builds the canonical child command line.
func ChildArgv(binary, pluginURI, segmentName string, parentWindow uint64) []string {
	return []string{binary, pluginURI, segmentName, strconv.FormatUint(parentWindow, 10)}
}

// StartHost probes a free segment name, creates the channel, spawns the
// child UI bound to it, and wraps the server endpoint in the host role.
// The caller typically follows up with WaitWindowID to hand the child's
// window to the embedding host.
func StartHost(binary, pluginURI string, parentWindow uint64, rbsize uint32, cfg HostConfig, opts ...channel.Option) (*Host, *channel.Server, error) {
	name, err := channel.FindFreeName("")
	if err != nil {
		return nil, nil, err
	}

	srv, err := channel.ServerStart(ChildArgv(binary, pluginURI, name, parentWindow), name, rbsize, opts...)
	if err != nil {
		return nil, nil, err
	}

	if cfg.IsRunning == nil {
		cfg.IsRunning = srv.IsRunning
	}
	return NewHost(srv, cfg), srv, nil
}
