package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// The simulator's world grid is a flat plane in meters. For evidence
// records we pin that plane onto Web Mercator (EPSG:3857) at a configured
// anchor, which keeps point data queryable with plain coordinates in
// SQLite while still allowing a WGS84 (EPSG:4326) readout for display.
// Geometry is stored in WKB via the inherent Scan/Value support.

// Anchor pins the world grid's origin onto EPSG:3857.
// Easting/Northing are the mercator coordinates of world (0, 0).
type Anchor struct {
	Easting  float64
	Northing float64
}

// MercatorPoint maps a world-grid position onto an EPSG:3857 point.
// World +X is east and +Z is north; elevation carries through as Z.
func (a Anchor) MercatorPoint(x, y, z float64) geom.Point {
	point, err := geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: a.Easting + x, Y: a.Northing + z},
			Z:    y,
			Type: geom.CoordinatesType(geom.DimXYZ),
		},
	)
	if err != nil {
		// only possible for non-finite coordinates
		return geom.NewEmptyPoint(geom.DimXYZ)
	}
	return point
}

// LatLon converts a world-grid position to WGS84 degrees.
func (a Anchor) LatLon(x, z float64) (lat, lon float64) {
	epsg := wgs84.EPSG()
	f := epsg.Transform(3857, 4326)
	lon, lat, _ = f(a.Easting+x, a.Northing+z, 0)
	return lat, lon
}
