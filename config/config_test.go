// File: config/config_test.go
// Author: momentics <momentics@gmail.com>

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/momentics/uibridge-ipc/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, datasize.ByteSize(0x7FFF), cfg.RingSize)
	require.Equal(t, "lv2-gtk-ui-bridge", cfg.NamePrefix)
	require.Equal(t, zapcore.InfoLevel, cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	path := writeFile(t, `
logging:
  level: debug
ring_size: 32KB
name_prefix: ubtest
scrub_env: true
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, zapcore.DebugLevel, cfg.Logging.Level)
	require.Equal(t, 32*datasize.KB, cfg.RingSize)
	require.Equal(t, "ubtest", cfg.NamePrefix)
	require.True(t, cfg.ScrubEnv)
}

func TestLoadRejectsBadRingSize(t *testing.T) {
	path := writeFile(t, "ring_size: 4B\n")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load("/nonexistent/bridge.yaml")
	require.Error(t, err)
}
