// File: channel/names.go
// Author: momentics <momentics@gmail.com>
//
// Segment name selection. The server probes the default family until it
// finds an unused name; the winner is passed to the child on argv.

package channel

import (
	"fmt"

	"github.com/momentics/uibridge-ipc/api"
	"github.com/momentics/uibridge-ipc/internal/shm"
)

// DefaultNamePrefix is the repo's segment name family.
const DefaultNamePrefix = "lv2-gtk-ui-bridge"

// Check returns true iff no segment of this name currently exists.
func Check(name string) bool { return shm.Check(name) }

// FindFreeName probes prefix-<N> for N in [1,9999] and returns the first
// name not currently in use. The probe is a hint only; creation still
// fails cleanly if another server wins the race.
func FindFreeName(prefix string) (string, error) {
	if prefix == "" {
		prefix = DefaultNamePrefix
	}
	for n := 1; n <= 9999; n++ {
		name := fmt.Sprintf("%s-%d", prefix, n)
		if !shm.ValidName(name) {
			return "", fmt.Errorf("%w: name %q", api.ErrInvalidArgument, name)
		}
		if shm.Check(name) {
			return name, nil
		}
	}
	return "", api.ErrNameInUse
}
