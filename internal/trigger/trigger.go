// Package trigger arms the capture controller from host gameplay events.
package trigger

import (
	"github.com/redlightcam/extension/internal/sim"
)

// Host event tags for the offence of interest.
const (
	// EventFined is the gameplay event the host raises when the player
	// is issued a fine.
	EventFined = "player.fined"

	// OffenceField is the payload attribute naming the offence.
	OffenceField = "offence"

	// OffenceRedSignal is the offence classifier for running a red light.
	OffenceRedSignal = "red_signal"
)

// Armer is the controller surface the trigger drives.
type Armer interface {
	Arm(ev sim.GameplayEvent) bool
}

// Trigger filters the host's event stream down to red-light fines.
type Trigger struct {
	controller Armer
}

// New creates a trigger feeding the given controller.
func New(controller Armer) *Trigger {
	return &Trigger{controller: controller}
}

// HandleEvent inspects one gameplay event and arms a capture when it is a
// red-light fine. Irrelevant or malformed events are ignored without
// error, and re-entrant triggers while a capture is in flight are
// swallowed by the controller's single-flight Arm.
func (t *Trigger) HandleEvent(ev sim.GameplayEvent) {
	if ev.ID != EventFined {
		return
	}
	if ev.Attr(OffenceField) != OffenceRedSignal {
		return
	}
	t.controller.Arm(ev)
}
