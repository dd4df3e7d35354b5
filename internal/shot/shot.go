// Package shot builds the console command that captures an evidence
// screenshot.
package shot

import (
	"fmt"

	"github.com/redlightcam/extension/internal/sim"
)

// Command returns the console command for a red-light capture at the given
// world position and simulation timestamp. Coordinates are truncated to
// integer meters; together with the timestamp they make the resulting
// filename unique across captures.
func Command(pos sim.Vec3, simTime uint64) string {
	return fmt.Sprintf(
		"screenshot red_light_X%d_Y%d_Z%d_T%d",
		int64(pos.X), int64(pos.Y), int64(pos.Z), simTime,
	)
}
