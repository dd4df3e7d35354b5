package sim

// Ports model the host surfaces the extension consumes. Get-style calls
// report availability explicitly: the host exposes each accessor as an
// optional capability, and a registered-but-missing accessor must surface
// as ok=false / error, never as a crash across the plugin boundary.

// CameraPort exposes the host's camera controls.
type CameraPort interface {
	// CurrentType reports the active camera mode. ok is false when the
	// host cannot determine it (capability missing or no vehicle focus).
	CurrentType() (CameraType, bool)
	SwitchTo(t CameraType) error

	// Free (developer) camera controls. Position is in the host's locally
	// re-centered grid and is float32 on the wire.
	FreePosition() (x, y, z float32, ok bool)
	SetFreePosition(x, y, z float32) error
	SetFreeOrientation(yaw, pitch, roll float32) error
	SetFreeFov(degrees float32) error

	// WorldCoordinates reports the active camera's world-space position.
	WorldCoordinates() (Vec3, bool)

	// Interior camera head rotation, meaningful only while the interior
	// camera is (or was) active.
	InteriorHeadRotation() (yaw, pitch float32, ok bool)
	SetInteriorHeadRotation(yaw, pitch float32) error
}

// TelemetryPort supplies vehicle state and simulation time on demand.
type TelemetryPort interface {
	VehiclePose() (VehiclePose, bool)
	SimTimestamp() uint64
}

// ConsolePort is the host's console-execution side channel. Execute is
// fire-and-forget; the host gives no confirmation of screenshot success.
type ConsolePort interface {
	Execute(command string)
}

// OverlayPort is the host's immediate-mode draw surface.
type OverlayPort interface {
	ViewportSize() (w, h float32)
	// DrawFilledRect draws an axis-aligned filled rectangle; color
	// components and alpha are in [0,1].
	DrawFilledRect(x1, y1, x2, y2, r, g, b, a float32)
	SetVisible(visible bool)
}
