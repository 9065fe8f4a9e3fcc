package geo

import (
	"errors"
	"testing"
)

func TestBoundaryRoundTrip(t *testing.T) {
	ring := []LatLng{
		{Lat: 38.80, Lng: 20.60},
		{Lat: 38.80, Lng: 20.80},
		{Lat: 38.90, Lng: 20.80},
		{Lat: 38.90, Lng: 20.60},
	}

	data, err := MarshalBoundary(ring)
	if err != nil {
		t.Fatalf("MarshalBoundary: %v", err)
	}

	got, err := UnmarshalBoundary(data)
	if err != nil {
		t.Fatalf("UnmarshalBoundary: %v", err)
	}
	if len(got) != len(ring) {
		t.Fatalf("ring length = %d, want %d", len(got), len(ring))
	}
	for i := range ring {
		if !samePoint(got[i], ring[i]) {
			t.Errorf("vertex %d = %+v, want %+v", i, got[i], ring[i])
		}
	}
}

func TestUnmarshalBoundaryMultiPolygon(t *testing.T) {
	doc := []byte(`{"type":"MultiPolygon","coordinates":[[[[20.6,38.8],[20.8,38.8],[20.8,38.9],[20.6,38.8]]]]}`)
	ring, err := UnmarshalBoundary(doc)
	if err != nil {
		t.Fatalf("UnmarshalBoundary: %v", err)
	}
	if len(ring) != 3 {
		t.Fatalf("ring length = %d, want 3", len(ring))
	}
	// coordinates are [lng, lat]
	if ring[0].Lat != 38.8 || ring[0].Lng != 20.6 {
		t.Errorf("first vertex = %+v, want lat 38.8 lng 20.6", ring[0])
	}
}

func TestUnmarshalBoundaryRejectsBadInput(t *testing.T) {
	cases := [][]byte{
		[]byte(`{"type":"Point","coordinates":[20.6,38.8]}`),
		[]byte(`{"type":"Polygon","coordinates":[]}`),
		[]byte(`{"type":"Polygon","coordinates":[[[20.6,38.8],[20.8,38.8]]]}`),
		[]byte(`not json`),
	}
	for _, doc := range cases {
		if _, err := UnmarshalBoundary(doc); err == nil {
			t.Errorf("UnmarshalBoundary(%s) succeeded, want error", doc)
		}
	}
}

func TestUnmarshalBoundaryTooFewVertices(t *testing.T) {
	doc := []byte(`{"type":"Polygon","coordinates":[[[20.6,38.8],[20.8,38.8],[20.6,38.8]]]}`)
	if _, err := UnmarshalBoundary(doc); !errors.Is(err, ErrTooFewVertices) {
		t.Fatalf("err = %v, want ErrTooFewVertices", err)
	}
}
