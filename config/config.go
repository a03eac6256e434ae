// File: config/config.go
// Author: momentics <momentics@gmail.com>
//
// Bridge configuration. Everything has a default; a YAML file can
// override individual fields.

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/c2h5oh/datasize"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/momentics/uibridge-ipc/channel"
	"github.com/momentics/uibridge-ipc/internal/logging"
)

// Config is the bridge configuration.
type Config struct {
	// Logging configures the stderr console logger.
	Logging logging.Config `yaml:"logging"`

	// RingSize is the per-direction ring capacity. Must be identical on
	// both ends of a channel.
	RingSize datasize.ByteSize `yaml:"ring_size"`

	// NamePrefix is the segment name family probed by the server.
	NamePrefix string `yaml:"name_prefix"`

	// ChildBinary overrides the bridge child executable path.
	ChildBinary string `yaml:"child_binary"`

	// AttachTimeout bounds the client's attach retry.
	AttachTimeout time.Duration `yaml:"attach_timeout"`

	// ScrubEnv strips loader variables from the child's environment.
	ScrubEnv bool `yaml:"scrub_env"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging:       logging.Config{Level: zapcore.InfoLevel},
		RingSize:      datasize.ByteSize(channel.DefaultRingSize),
		NamePrefix:    channel.DefaultNamePrefix,
		AttachTimeout: 5 * time.Second,
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unusable field combinations.
func (c *Config) Validate() error {
	if c.RingSize < 16 || c.RingSize > 1<<30 {
		return fmt.Errorf("ring_size %s not in range [16B, 1GB]", c.RingSize)
	}
	if c.NamePrefix == "" {
		return fmt.Errorf("name_prefix must not be empty")
	}
	if c.AttachTimeout <= 0 {
		return fmt.Errorf("attach_timeout must be positive")
	}
	return nil
}
