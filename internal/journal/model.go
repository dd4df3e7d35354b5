package journal

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels lists the structs migrated into the journal schema.
var DatabaseModels = []interface{}{
	&Capture{},
}

// Capture is one recorded evidence screenshot.
type Capture struct {
	gorm.Model

	// Offence is the host's offence classifier for the triggering fine.
	Offence string `json:"offence" gorm:"size:64;index"`

	// World-grid position of the vehicle at capture time.
	WorldX float64 `json:"worldX"`
	WorldY float64 `json:"worldY"`
	WorldZ float64 `json:"worldZ"`

	// Position is the EPSG:3857 projection of the world position,
	// stored as WKB.
	Position geom.Point `json:"position"`

	// WGS84 readout for display.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// SimTime is the host's simulation timestamp at capture.
	SimTime uint64 `json:"simTime"`

	// Command is the console command that was issued; the screenshot
	// filename is derived from it by the host.
	Command string `json:"command" gorm:"size:255"`

	// OriginalCamera is the camera mode that was restored afterwards.
	OriginalCamera string `json:"originalCamera" gorm:"size:32"`

	// EventFields is the raw payload of the triggering gameplay event.
	EventFields datatypes.JSON `json:"eventFields"`

	// CapturedAt is wall-clock time of the capture.
	CapturedAt time.Time `json:"capturedAt"`
}
