package geo

import (
	"errors"
	"math"
)

// AreaMode selects which geometry representation a service area uses.
type AreaMode string

const (
	AreaRadius  AreaMode = "radius"
	AreaPolygon AreaMode = "polygon"
)

var (
	ErrRadiusNotPositive = errors.New("radius must be a positive number of kilometers")
	ErrTooFewVertices    = errors.New("boundary needs at least 3 distinct vertices")
	ErrZeroArea          = errors.New("boundary encloses no area")
	ErrSelfIntersecting  = errors.New("boundary outline must not cross itself")
	ErrUnknownAreaMode   = errors.New("unknown area mode")
)

// floating-point slack for boundary-inclusive tests, in degrees / km
const geomEpsilon = 1e-9

// Area is a sanctuary service area: either a circle around the sanctuary
// location or a drawn polygon. Exactly one representation is active; the
// constructors are the only way to build a valid value, so a radius and a
// ring can never coexist.
type Area struct {
	Mode     AreaMode
	RadiusKm float64  // set iff Mode == AreaRadius
	Ring     []LatLng // set iff Mode == AreaPolygon; closed implicitly
}

// RadiusArea builds a circular area of km kilometers.
func RadiusArea(km float64) (Area, error) {
	if math.IsNaN(km) || math.IsInf(km, 0) || km <= 0 {
		return Area{}, ErrRadiusNotPositive
	}
	return Area{Mode: AreaRadius, RadiusKm: km}, nil
}

// PolygonArea builds a polygonal area from a drawn outline. The outline is
// normalized via FromDrawnShape before being accepted.
func PolygonArea(vertices []LatLng) (Area, error) {
	ring, err := FromDrawnShape(vertices)
	if err != nil {
		return Area{}, err
	}
	return Area{Mode: AreaPolygon, Ring: ring}, nil
}

// Contains reports whether the area covers the given point around center.
// Points exactly on the circle or on a polygon edge count as inside.
func (a Area) Contains(center, p LatLng) bool {
	switch a.Mode {
	case AreaRadius:
		return DistanceKm(center, p) <= a.RadiusKm+geomEpsilon
	case AreaPolygon:
		return pointInRing(p, a.Ring)
	default:
		return false
	}
}

// FromDrawnShape normalizes a user-drawn outline into a canonical open ring:
// consecutive duplicates removed, explicit closure dropped, orientation kept.
// Degenerate input (fewer than 3 distinct vertices, zero enclosed area, or a
// self-intersecting outline) is rejected.
func FromDrawnShape(raw []LatLng) ([]LatLng, error) {
	ring := make([]LatLng, 0, len(raw))
	for _, v := range raw {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if len(ring) > 0 && samePoint(ring[len(ring)-1], v) {
			continue
		}
		ring = append(ring, v)
	}
	// drop explicit closure
	if len(ring) > 1 && samePoint(ring[0], ring[len(ring)-1]) {
		ring = ring[:len(ring)-1]
	}

	if countDistinct(ring) < 3 {
		return nil, ErrTooFewVertices
	}
	// a symmetric bowtie has zero signed area, so crossing edges must be
	// diagnosed before the area test
	if ringSelfIntersects(ring) {
		return nil, ErrSelfIntersecting
	}
	if math.Abs(shoelace(ring)) <= geomEpsilon {
		return nil, ErrZeroArea
	}
	return ring, nil
}

func samePoint(a, b LatLng) bool {
	return math.Abs(a.Lat-b.Lat) <= geomEpsilon && math.Abs(a.Lng-b.Lng) <= geomEpsilon
}

func countDistinct(ring []LatLng) int {
	n := 0
	for i, v := range ring {
		dup := false
		for j := 0; j < i; j++ {
			if samePoint(ring[j], v) {
				dup = true
				break
			}
		}
		if !dup {
			n++
		}
	}
	return n
}

// shoelace returns twice the signed planar area of the ring in square
// degrees. Only the zero/non-zero distinction matters here.
func shoelace(ring []LatLng) float64 {
	sum := 0.0
	for i := range ring {
		j := (i + 1) % len(ring)
		sum += ring[i].Lng*ring[j].Lat - ring[j].Lng*ring[i].Lat
	}
	return sum
}

// pointInRing is a ray-casting test with points on an edge counted inside.
func pointInRing(p LatLng, ring []LatLng) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[j], ring[i]
		if onSegment(p, a, b) {
			return true
		}
		if (b.Lat > p.Lat) != (a.Lat > p.Lat) {
			x := (a.Lng-b.Lng)*(p.Lat-b.Lat)/(a.Lat-b.Lat) + b.Lng
			if p.Lng < x {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(p, a, b LatLng) bool {
	cross := (b.Lng-a.Lng)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lng-a.Lng)
	if math.Abs(cross) > geomEpsilon {
		return false
	}
	return p.Lat >= math.Min(a.Lat, b.Lat)-geomEpsilon && p.Lat <= math.Max(a.Lat, b.Lat)+geomEpsilon &&
		p.Lng >= math.Min(a.Lng, b.Lng)-geomEpsilon && p.Lng <= math.Max(a.Lng, b.Lng)+geomEpsilon
}

// ringSelfIntersects checks every pair of non-adjacent edges for a crossing.
// O(n^2) is fine for hand-drawn outlines.
func ringSelfIntersects(ring []LatLng) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		a1 := ring[i]
		a2 := ring[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// skip edges sharing a vertex with edge i
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			b1 := ring[j]
			b2 := ring[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(a1, a2, b1, b2 LatLng) bool {
	d1 := direction(b1, b2, a1)
	d2 := direction(b1, b2, a2)
	d3 := direction(a1, a2, b1)
	d4 := direction(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func direction(a, b, c LatLng) float64 {
	return (b.Lng-a.Lng)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lng-a.Lng)
}
