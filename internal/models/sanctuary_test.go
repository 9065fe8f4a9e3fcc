package models

import (
	"errors"
	"testing"

	"github.com/straypaws/straymap/internal/geo"
)

func lefkadaQuad() []geo.LatLng {
	return []geo.LatLng{
		{Lat: 38.75, Lng: 20.55},
		{Lat: 38.75, Lng: 20.75},
		{Lat: 38.90, Lng: 20.75},
		{Lat: 38.90, Lng: 20.55},
	}
}

func TestSanctuaryAreaRoundTrip(t *testing.T) {
	s := &Sanctuary{Latitude: 38.8, Longitude: 20.7}

	radius, err := geo.RadiusArea(5)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetArea(radius); err != nil {
		t.Fatalf("SetArea(radius): %v", err)
	}

	got, err := s.Area()
	if err != nil {
		t.Fatalf("Area: %v", err)
	}
	if got.Mode != geo.AreaRadius || got.RadiusKm != 5 {
		t.Fatalf("round-tripped area = %+v", got)
	}
}

func TestSanctuarySwitchingModesClearsTheOther(t *testing.T) {
	s := &Sanctuary{Latitude: 38.8, Longitude: 20.7}

	radius, _ := geo.RadiusArea(5)
	if err := s.SetArea(radius); err != nil {
		t.Fatal(err)
	}
	if s.RadiusKm == nil || s.Boundary != nil {
		t.Fatalf("after radius: radius_km=%v boundary=%v", s.RadiusKm, s.Boundary)
	}

	polygon, err := geo.PolygonArea(lefkadaQuad())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetArea(polygon); err != nil {
		t.Fatal(err)
	}
	if s.RadiusKm != nil {
		t.Error("radius_km must read as absent after switching to a boundary")
	}
	if len(s.Boundary) == 0 {
		t.Error("boundary must be set after switching to a polygon")
	}

	// after the switch, classification uses the polygon test exclusively
	inside, err := s.ContainsPoint(geo.LatLng{Lat: 38.80, Lng: 20.60})
	if err != nil || !inside {
		t.Errorf("ContainsPoint inside polygon = %v, %v", inside, err)
	}
	outside, err := s.ContainsPoint(geo.LatLng{Lat: 39.5, Lng: 21.5})
	if err != nil || outside {
		t.Errorf("ContainsPoint far point = %v, %v", outside, err)
	}

	// and back to a radius clears the boundary again
	if err := s.SetArea(radius); err != nil {
		t.Fatal(err)
	}
	if s.Boundary != nil {
		t.Error("boundary must be cleared after switching back to a radius")
	}
}

func TestSanctuaryContainsPointRadius(t *testing.T) {
	s := &Sanctuary{Latitude: 38.8, Longitude: 20.7}
	radius, _ := geo.RadiusArea(5)
	if err := s.SetArea(radius); err != nil {
		t.Fatal(err)
	}

	inside, err := s.ContainsPoint(geo.LatLng{Lat: 38.83, Lng: 20.7})
	if err != nil || !inside {
		t.Errorf("~3.3 km point: inside=%v err=%v, want inside", inside, err)
	}
	outside, err := s.ContainsPoint(geo.LatLng{Lat: 39.0, Lng: 20.7})
	if err != nil || outside {
		t.Errorf("~22 km point: inside=%v err=%v, want outside", outside, err)
	}
}

func TestSanctuaryAreaInvalidState(t *testing.T) {
	s := &Sanctuary{AreaMode: "polygon"}
	if _, err := s.Area(); !errors.Is(err, geo.ErrBadBoundaryDocument) {
		t.Fatalf("empty boundary err = %v, want ErrBadBoundaryDocument", err)
	}

	s = &Sanctuary{AreaMode: "radius"}
	if _, err := s.Area(); !errors.Is(err, geo.ErrRadiusNotPositive) {
		t.Fatalf("missing radius err = %v, want ErrRadiusNotPositive", err)
	}

	s = &Sanctuary{AreaMode: "square"}
	if _, err := s.Area(); !errors.Is(err, geo.ErrUnknownAreaMode) {
		t.Fatalf("unknown mode err = %v, want ErrUnknownAreaMode", err)
	}
}
