package sim

import "time"

// CameraType identifies one of the host's camera modes. The numeric values
// match the host's camera indices; 0 is the developer free camera.
type CameraType int

const (
	CameraFree CameraType = iota
	CameraInterior
	CameraChase
	CameraTopDown
	CameraRoof
	CameraLean
	CameraWindow
	CameraBumper
	CameraOnRails
)

// String returns the host-facing name of the camera type.
func (c CameraType) String() string {
	switch c {
	case CameraFree:
		return "free"
	case CameraInterior:
		return "interior"
	case CameraChase:
		return "chase"
	case CameraTopDown:
		return "topdown"
	case CameraRoof:
		return "roof"
	case CameraLean:
		return "lean"
	case CameraWindow:
		return "window"
	case CameraBumper:
		return "bumper"
	case CameraOnRails:
		return "onrails"
	default:
		return "unknown"
	}
}

// Vec3 is a double-precision world-space vector. The host re-centers its
// local grid during long sessions, so world coordinates can grow large;
// float64 keeps the grid-origin arithmetic exact enough.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// VehiclePose is a read-only snapshot of the player vehicle.
// Heading is a normalized turn fraction in [0,1), clockwise from north.
type VehiclePose struct {
	Position Vec3
	Heading  float64
}

// GameplayEvent is a named event delivered by the host's telemetry channel.
// Fields carries the event's attribute payload as delivered.
type GameplayEvent struct {
	ID        string
	Fields    map[string]string
	Timestamp time.Time
}

// Attr returns a payload attribute, or "" if absent.
func (e GameplayEvent) Attr(key string) string {
	if e.Fields == nil {
		return ""
	}
	return e.Fields[key]
}
