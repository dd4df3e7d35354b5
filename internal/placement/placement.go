// Package placement computes where the evidence camera goes.
//
// The host keeps two coordinate frames: an absolute "world" grid and a
// periodically re-centered "local" grid used by the free camera. The offset
// between the two drifts over a long session, so it is re-derived from the
// active camera on every placement call instead of being cached.
package placement

import (
	"errors"
	"math"

	"github.com/redlightcam/extension/internal/sim"
)

// ErrCameraUnavailable is returned when a camera accessor needed for
// placement is missing or reports failure.
var ErrCameraUnavailable = errors.New("camera position unavailable")

// Settings are the operator-tunable placement parameters. They are read
// fresh on every solve so a live settings change repositions the camera
// without restarting a capture.
type Settings struct {
	// DistanceForward is meters along the vehicle heading; positive is
	// ahead of the vehicle, negative behind.
	DistanceForward float64
	// HeightAbove is meters above the vehicle origin.
	HeightAbove float64
	// FieldOfView is the free camera FOV in degrees.
	FieldOfView float64
}

// Placement is a solved camera pose in the host's local grid.
type Placement struct {
	Local sim.Vec3
	// Yaw and Pitch aim the camera back at the vehicle. HasLook is false
	// for the degenerate zero-offset case, where the camera keeps
	// whatever orientation it already had.
	Yaw, Pitch float64
	HasLook    bool
}

// Direction converts a normalized heading (turn fraction in [0,1),
// clockwise from north) into a unit direction vector on the ground plane,
// with +Z north and +X east.
func Direction(heading float64) sim.Vec3 {
	a := 2 * math.Pi * heading
	return sim.Vec3{X: math.Sin(a), Y: 0, Z: math.Cos(a)}
}

// Solve computes the camera pose for the given vehicle pose and settings.
// camWorld and camLocal are the active camera's world position and the free
// camera's local position, read fresh by the caller; their difference is
// the current grid origin.
func Solve(pose sim.VehiclePose, s Settings, camWorld, camLocal sim.Vec3) Placement {
	dir := Direction(pose.Heading)
	offset := sim.Vec3{
		X: dir.X * s.DistanceForward,
		Y: s.HeightAbove,
		Z: dir.Z * s.DistanceForward,
	}
	world := pose.Position.Add(offset)

	origin := camWorld.Sub(camLocal)

	// Height is not subject to horizontal re-centering; it passes through.
	p := Placement{
		Local: sim.Vec3{
			X: world.X - origin.X,
			Y: world.Y,
			Z: world.Z - origin.Z,
		},
	}

	if s.DistanceForward == 0 && s.HeightAbove == 0 {
		return p
	}

	// Look back along the offset toward the vehicle.
	look := sim.Vec3{X: -offset.X, Y: -offset.Y, Z: -offset.Z}
	p.Yaw = math.Atan2(-look.X, -look.Z)
	p.Pitch = math.Atan2(look.Y, math.Sqrt(look.X*look.X+look.Z*look.Z))
	p.HasLook = true
	return p
}

// Apply solves a placement from live camera state and pushes it through the
// camera port, switching to the free camera first if some other mode is
// active. The switch is guarded so repeated calls while an operator drags a
// settings slider do not re-issue it every frame.
//
// Positions are solved in float64 and downcast only at the port calls,
// which take float32.
func Apply(cam sim.CameraPort, pose sim.VehiclePose, s Settings) error {
	camWorld, ok := cam.WorldCoordinates()
	if !ok {
		return ErrCameraUnavailable
	}
	lx, ly, lz, ok := cam.FreePosition()
	if !ok {
		return ErrCameraUnavailable
	}
	camLocal := sim.Vec3{X: float64(lx), Y: float64(ly), Z: float64(lz)}

	p := Solve(pose, s, camWorld, camLocal)

	if cur, ok := cam.CurrentType(); !ok || cur != sim.CameraFree {
		if err := cam.SwitchTo(sim.CameraFree); err != nil {
			return err
		}
	}

	if err := cam.SetFreePosition(float32(p.Local.X), float32(p.Local.Y), float32(p.Local.Z)); err != nil {
		return err
	}
	if p.HasLook {
		if err := cam.SetFreeOrientation(float32(p.Yaw), float32(p.Pitch), 0); err != nil {
			return err
		}
	}
	return cam.SetFreeFov(float32(s.FieldOfView))
}
