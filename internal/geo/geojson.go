package geo

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Boundaries are persisted as GeoJSON geometry documents: coordinates are
// [longitude, latitude] pairs and only the outer ring is stored (no holes).

var ErrBadBoundaryDocument = errors.New("boundary is not a valid polygon document")

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// MarshalBoundary encodes a normalized open ring as a closed GeoJSON Polygon.
func MarshalBoundary(ring []LatLng) ([]byte, error) {
	if len(ring) < 3 {
		return nil, ErrTooFewVertices
	}
	coords := make([][]float64, 0, len(ring)+1)
	for _, v := range ring {
		coords = append(coords, []float64{v.Lng, v.Lat})
	}
	coords = append(coords, []float64{ring[0].Lng, ring[0].Lat})

	doc := struct {
		Type        string        `json:"type"`
		Coordinates [][][]float64 `json:"coordinates"`
	}{
		Type:        "Polygon",
		Coordinates: [][][]float64{coords},
	}
	return json.Marshal(doc)
}

// UnmarshalBoundary decodes a GeoJSON Polygon or MultiPolygon document into
// the outer ring, with the closing vertex dropped.
func UnmarshalBoundary(data []byte) ([]LatLng, error) {
	var g geoJSONGeometry
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBoundaryDocument, err)
	}

	var outer [][]float64
	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBoundaryDocument, err)
		}
		if len(rings) == 0 {
			return nil, ErrBadBoundaryDocument
		}
		outer = rings[0]
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBoundaryDocument, err)
		}
		if len(polys) == 0 || len(polys[0]) == 0 {
			return nil, ErrBadBoundaryDocument
		}
		outer = polys[0][0]
	default:
		return nil, fmt.Errorf("%w: unsupported type %q", ErrBadBoundaryDocument, g.Type)
	}

	ring := make([]LatLng, 0, len(outer))
	for _, pair := range outer {
		if len(pair) < 2 {
			return nil, ErrBadBoundaryDocument
		}
		ring = append(ring, LatLng{Lat: pair[1], Lng: pair[0]})
	}
	if len(ring) > 1 && samePoint(ring[0], ring[len(ring)-1]) {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil, ErrTooFewVertices
	}
	return ring, nil
}
