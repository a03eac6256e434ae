//go:build linux

// File: internal/shm/shm_linux_test.go
// Author: momentics <momentics@gmail.com>

package shm_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/uibridge-ipc/api"
	"github.com/momentics/uibridge-ipc/internal/shm"
)

func testName(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("ubtest-%d", os.Getpid()%100000)
}

func TestValidName(t *testing.T) {
	require.True(t, shm.ValidName("lv2-gtk-ui-bridge-9999"))
	require.False(t, shm.ValidName(""))
	require.False(t, shm.ValidName("this-name-is-way-too-long"))
	require.False(t, shm.ValidName("has space"))
	require.False(t, shm.ValidName("has/slash"))
}

func TestCreateAttachDestroy(t *testing.T) {
	name := testName(t)
	require.True(t, shm.Check(name))

	srv, err := shm.ServerCreate(name, 4096, false)
	require.NoError(t, err)
	defer srv.Destroy()
	require.Len(t, srv.Bytes(), 4096)
	require.False(t, shm.Check(name))

	// Fresh segments are zeroed.
	for i, b := range srv.Bytes() {
		require.Zero(t, b, "byte %d", i)
	}

	cli, err := shm.ClientAttach(name, 4096, false)
	require.NoError(t, err)
	require.Len(t, cli.Bytes(), 4096)

	// Both mappings see the same memory.
	srv.Bytes()[100] = 0xAB
	require.Equal(t, byte(0xAB), cli.Bytes()[100])
	cli.Bytes()[200] = 0xCD
	require.Equal(t, byte(0xCD), srv.Bytes()[200])

	cli.Detach()
	require.False(t, shm.Check(name), "client detach must not unlink")
}

func TestCreateExclusive(t *testing.T) {
	name := testName(t)
	srv, err := shm.ServerCreate(name, 1024, false)
	require.NoError(t, err)
	defer srv.Destroy()

	_, err = shm.ServerCreate(name, 1024, false)
	require.ErrorIs(t, err, api.ErrNameInUse)
}

func TestDestroyFreesName(t *testing.T) {
	name := testName(t)
	srv, err := shm.ServerCreate(name, 1024, false)
	require.NoError(t, err)
	srv.Destroy()
	require.True(t, shm.Check(name))

	_, err = shm.ClientAttach(name, 1024, false)
	require.ErrorIs(t, err, api.ErrNameNotFound)
}

func TestAttachSizeMismatch(t *testing.T) {
	name := testName(t)
	srv, err := shm.ServerCreate(name, 1024, false)
	require.NoError(t, err)
	defer srv.Destroy()

	_, err = shm.ClientAttach(name, 8192, false)
	require.ErrorIs(t, err, api.ErrMapFailed)
}

func TestAttachMissing(t *testing.T) {
	_, err := shm.ClientAttach("ubtest-none", 1024, false)
	require.ErrorIs(t, err, api.ErrNameNotFound)
}
