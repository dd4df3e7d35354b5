// Package sequence drives the multi-frame capture choreography.
//
// Camera mode switches and screenshot issuance are host operations whose
// effects only become observable on a later frame, so the work is spread
// over a fixed frame schedule instead of running in one update:
//
//	1  save camera state, full flash, move the free camera into position
//	2  issue the screenshot console command
//	3  switch back to the original camera
//	4  flash fades to 0.7
//	5  restore interior head rotation, when that was the original camera
//	6  flash fades to 0.3
//	7+ hide the overlay and reset
//
// The offsets are a fixed contract: issuing the screenshot any earlier
// photographs the previous camera, any later photographs the restored one.
package sequence

import (
	"log/slog"

	"github.com/redlightcam/extension/internal/placement"
	"github.com/redlightcam/extension/internal/shot"
	"github.com/redlightcam/extension/internal/sim"
)

// Capture describes one completed screenshot for downstream recording.
type Capture struct {
	Position       sim.Vec3
	SimTime        uint64
	Command        string
	OriginalCamera sim.CameraType
	Event          sim.GameplayEvent
}

// Visibility is the minimal overlay surface the controller drives.
type Visibility interface {
	SetVisible(visible bool)
}

// Dependencies holds everything the controller needs. All collaborators
// are required except Overlay and OnCapture.
type Dependencies struct {
	Camera    sim.CameraPort
	Telemetry sim.TelemetryPort
	Console   sim.ConsolePort

	// Settings is read fresh at each placement so live changes apply
	// mid-sequence.
	Settings func() placement.Settings

	Logger *slog.Logger

	// Overlay, when set, is shown while a sequence runs.
	Overlay Visibility

	// OnCapture, when set, is invoked once per issued screenshot command.
	OnCapture func(Capture)
}

// captureSequence is the single in-flight sequence. Zero value is idle.
type captureSequence struct {
	active       bool
	frameCounter int

	originalType  sim.CameraType
	originalYaw   float32
	originalPitch float32
	lookSaved     bool

	flashAlpha float32

	event sim.GameplayEvent
}

// Controller owns the one capture sequence. All methods must be called
// from the host's update thread; the host serializes update ticks, event
// delivery, and setting notifications on one logical thread, so there is
// no locking here.
type Controller struct {
	deps Dependencies
	seq  captureSequence
}

// NewController creates an idle controller.
func NewController(deps Dependencies) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Controller{deps: deps}
}

// Active reports whether a sequence is in progress.
func (c *Controller) Active() bool { return c.seq.active }

// FrameCounter reports the current frame index, 0 when idle.
func (c *Controller) FrameCounter() int { return c.seq.frameCounter }

// FlashAlpha is the overlay opacity published for the current frame.
func (c *Controller) FlashAlpha() float32 { return c.seq.flashAlpha }

// Arm starts a new sequence for the given event. While a sequence is
// already active the call is ignored and false is returned, so overlapping
// trigger events cannot reset or duplicate a capture in flight.
func (c *Controller) Arm(ev sim.GameplayEvent) bool {
	if c.seq.active {
		c.deps.Logger.Debug("capture already in progress, ignoring trigger", "event", ev.ID)
		return false
	}
	c.seq = captureSequence{active: true, event: ev}
	if c.deps.Overlay != nil {
		c.deps.Overlay.SetVisible(true)
	}
	c.deps.Logger.Info("capture sequence armed", "event", ev.ID)
	return true
}

// Preview re-solves and applies the camera placement from the live
// settings. Used when a camera setting changes mid-sequence so the new
// geometry is visible immediately. No-op while idle.
func (c *Controller) Preview(pose sim.VehiclePose) error {
	if !c.seq.active {
		return nil
	}
	return placement.Apply(c.deps.Camera, pose, c.deps.Settings())
}

// Tick advances the sequence by exactly one frame. It must be called once
// per host update; it is a no-op while idle.
func (c *Controller) Tick() {
	if !c.seq.active {
		return
	}
	c.seq.frameCounter++

	switch c.seq.frameCounter {
	case 1:
		c.saveAndReposition()
	case 2:
		c.issueScreenshot()
	case 3:
		if err := c.deps.Camera.SwitchTo(c.seq.originalType); err != nil {
			c.deps.Logger.Warn("failed to restore camera type",
				"camera", c.seq.originalType.String(), "error", err)
		}
	case 4:
		c.seq.flashAlpha = 0.7
	case 5:
		if c.seq.originalType == sim.CameraInterior && c.seq.lookSaved {
			if err := c.deps.Camera.SetInteriorHeadRotation(c.seq.originalYaw, c.seq.originalPitch); err != nil {
				c.deps.Logger.Warn("failed to restore interior head rotation", "error", err)
			}
		}
	case 6:
		c.seq.flashAlpha = 0.3
	default:
		c.finish()
	}
}

// saveAndReposition is the frame-1 action. Any missing required capability
// here aborts the whole attempt; nothing has been issued to the host yet
// that a later frame would need to undo.
func (c *Controller) saveAndReposition() {
	cur, ok := c.deps.Camera.CurrentType()
	if !ok {
		c.deps.Logger.Error("cannot determine current camera type, aborting capture")
		c.abort()
		return
	}
	c.seq.originalType = cur

	if cur == sim.CameraInterior {
		yaw, pitch, ok := c.deps.Camera.InteriorHeadRotation()
		if ok {
			c.seq.originalYaw = yaw
			c.seq.originalPitch = pitch
			c.seq.lookSaved = true
		} else {
			c.deps.Logger.Warn("interior head rotation unavailable, look direction will not be restored")
		}
	}

	c.seq.flashAlpha = 1.0

	pose, ok := c.deps.Telemetry.VehiclePose()
	if !ok {
		c.deps.Logger.Error("vehicle pose unavailable, aborting capture")
		c.abort()
		return
	}

	if err := placement.Apply(c.deps.Camera, pose, c.deps.Settings()); err != nil {
		c.deps.Logger.Error("failed to position evidence camera, aborting capture", "error", err)
		c.abort()
	}
}

func (c *Controller) issueScreenshot() {
	pose, ok := c.deps.Telemetry.VehiclePose()
	if !ok {
		c.deps.Logger.Warn("vehicle pose unavailable, skipping screenshot command")
		return
	}
	simTime := c.deps.Telemetry.SimTimestamp()

	cmd := shot.Command(pose.Position, simTime)
	c.deps.Console.Execute(cmd)
	c.deps.Logger.Info("issued capture command", "command", cmd)

	if c.deps.OnCapture != nil {
		c.deps.OnCapture(Capture{
			Position:       pose.Position,
			SimTime:        simTime,
			Command:        cmd,
			OriginalCamera: c.seq.originalType,
			Event:          c.seq.event,
		})
	}
}

// abort halts the schedule immediately after a frame-1 failure. The next
// qualifying event starts over from frame 1.
func (c *Controller) abort() {
	if c.deps.Overlay != nil {
		c.deps.Overlay.SetVisible(false)
	}
	c.seq = captureSequence{}
}

func (c *Controller) finish() {
	if c.deps.Overlay != nil {
		c.deps.Overlay.SetVisible(false)
	}
	c.seq = captureSequence{}
	c.deps.Logger.Info("capture sequence complete")
}
