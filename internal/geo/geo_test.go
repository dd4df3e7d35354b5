package geo

import (
	"math"
	"testing"
)

func TestMercatorPoint(t *testing.T) {
	a := Anchor{Easting: 1000, Northing: 6650000}

	p := a.MercatorPoint(250, 42.5, -500)
	coords, ok := p.Coordinates()
	if !ok {
		t.Fatal("expected non-empty point")
	}

	if coords.XY.X != 1250 {
		t.Errorf("expected easting 1250, got %v", coords.XY.X)
	}
	if coords.XY.Y != 6649500 {
		t.Errorf("expected northing 6649500, got %v", coords.XY.Y)
	}
	if coords.Z != 42.5 {
		t.Errorf("expected elevation 42.5, got %v", coords.Z)
	}
}

func TestMercatorPoint_NonFiniteCoordinates(t *testing.T) {
	a := Anchor{}

	p := a.MercatorPoint(math.NaN(), 0, math.Inf(1))
	if !p.IsEmpty() {
		t.Error("expected empty point for non-finite input")
	}
}

func TestLatLon_AtAnchorOrigin(t *testing.T) {
	// Mercator (0, 0) is the equator at the prime meridian.
	a := Anchor{}

	lat, lon := a.LatLon(0, 0)
	if math.Abs(lat) > 1e-6 {
		t.Errorf("expected lat 0, got %v", lat)
	}
	if math.Abs(lon) > 1e-6 {
		t.Errorf("expected lon 0, got %v", lon)
	}
}

func TestLatLon_NorthIncreasesLatitude(t *testing.T) {
	a := Anchor{Northing: 6650000}

	lat0, _ := a.LatLon(0, 0)
	lat1, _ := a.LatLon(0, 10000)
	if lat1 <= lat0 {
		t.Errorf("expected latitude to grow northward, got %v then %v", lat0, lat1)
	}

	_, lon0 := a.LatLon(0, 0)
	_, lon1 := a.LatLon(10000, 0)
	if lon1 <= lon0 {
		t.Errorf("expected longitude to grow eastward, got %v then %v", lon0, lon1)
	}
}
