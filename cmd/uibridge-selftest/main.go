// File: cmd/uibridge-selftest/main.go
// Author: momentics <momentics@gmail.com>
//
// Self test for the shared-memory bridge: the server mode spawns this
// same binary in client mode against a freshly created segment, waits
// for the window-id handshake, answers URID map requests, and verifies
// that teardown releases the name.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/momentics/uibridge-ipc/api"
	"github.com/momentics/uibridge-ipc/bridge"
	"github.com/momentics/uibridge-ipc/channel"
	"github.com/momentics/uibridge-ipc/config"
	"github.com/momentics/uibridge-ipc/internal/logging"
)

var (
	cfgPath      string
	ringSizeFlag string
	prefixFlag   string
)

var rootCmd = &cobra.Command{
	Use:          "uibridge-selftest",
	Short:        "Exercise a full shared-memory channel round trip against a spawned copy of itself",
	RunE:         runServer,
	SilenceUsage: true,
}

var clientCmd = &cobra.Command{
	Use:    "client <segment-name>",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE:   runClient,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&ringSizeFlag, "ring-size", "", "per-direction ring capacity, e.g. 32KB")
	rootCmd.Flags().StringVar(&prefixFlag, "prefix", "", "segment name prefix to probe")
	rootCmd.AddCommand(clientCmd)
}

func setup() (*config.Config, *zap.SugaredLogger, error) {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return nil, nil, err
		}
	}
	if ringSizeFlag != "" {
		var bs datasize.ByteSize
		if err := bs.UnmarshalText([]byte(ringSizeFlag)); err != nil {
			return nil, nil, fmt.Errorf("bad --ring-size: %w", err)
		}
		cfg.RingSize = bs
	}
	if prefixFlag != "" {
		cfg.NamePrefix = prefixFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, _, err := logging.Init(&cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// sequentialMapper interns URIs the way a host's urid:map would.
func sequentialMapper() func(string) uint32 {
	var mu sync.Mutex
	ids := map[string]uint32{}
	next := uint32(1)
	return func(uri string) uint32 {
		mu.Lock()
		defer mu.Unlock()
		if id, ok := ids[uri]; ok {
			return id
		}
		id := next
		next++
		ids[uri] = id
		return id
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	name, err := channel.FindFreeName(cfg.NamePrefix)
	if err != nil {
		return err
	}

	child := cfg.ChildBinary
	if child == "" {
		if child, err = os.Executable(); err != nil {
			return err
		}
	}
	argv := []string{child, "client", name,
		"--ring-size", strconv.FormatUint(uint64(cfg.RingSize), 10)}

	opts := []channel.Option{channel.WithLogger(log)}
	if cfg.ScrubEnv {
		opts = append(opts, channel.WithScrubbedEnv())
	}

	srv, err := channel.ServerStart(argv, name, uint32(cfg.RingSize), opts...)
	if err != nil {
		return err
	}
	log.Infof("channel %q up, child pid %d", name, srv.ChildPid())

	host := bridge.NewHost(srv, bridge.HostConfig{
		IsRunning: srv.IsRunning,
		MapURI:    sequentialMapper(),
		WriteFunc: func(portIndex, format uint32, buf []byte) {
			log.Infof("port event from child: port=%d format=%d size=%d", portIndex, format, len(buf))
		},
		Logger: log,
	})

	wid, err := host.WaitWindowID(10 * time.Second)
	if err != nil {
		srv.Stop()
		return fmt.Errorf("window id handshake: %w", err)
	}
	log.Infof("child announced window id %#x", wid)

	// Keep answering until the client finishes and exits.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := host.Serve(ctx); err != nil &&
		!errors.Is(err, api.ErrPeerDead) && !errors.Is(err, context.DeadlineExceeded) {
		srv.Stop()
		return err
	}

	srv.Stop()
	if !channel.Check(name) {
		return fmt.Errorf("segment name %q still in use after stop", name)
	}
	log.Infof("selftest passed, name %q released", name)
	return nil
}

func runClient(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	name := args[0]

	ui, err := bridge.Dial(name, uint32(cfg.RingSize), cfg.AttachTimeout, bridge.UIConfig{
		Logger: log,
		PortEvent: func(portIndex, format uint32, buf []byte) {
			log.Infof("port event from host: port=%d format=%d size=%d", portIndex, format, len(buf))
		},
	}, channel.WithLogger(log))
	if err != nil {
		return err
	}
	defer ui.Close()

	if err := ui.AnnounceWindow(uint64(os.Getpid())); err != nil {
		return err
	}

	urid := ui.MapURI("urn:uibridge:selftest")
	if urid == 0 {
		return fmt.Errorf("urid map round trip failed")
	}
	if again := ui.MapURI("urn:uibridge:selftest"); again != urid {
		return fmt.Errorf("urid not stable: %d then %d", urid, again)
	}
	log.Infof("urid %d interned", urid)

	if err := ui.PortEvent(1, 0, []byte{0, 0, 0x80, 0x3F}); err != nil {
		return err
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
