package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/straypaws/straymap/internal/geo"
)

// Sanctuary is an organization with a declared geographic service area.
// Exactly one geometry representation is persisted: radius_km for circular
// areas, boundary (a GeoJSON polygon document) for drawn outlines. The
// Area/SetArea round-trip keeps the two mutually exclusive.
type Sanctuary struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	Description  string         `gorm:"size:1000" json:"description,omitempty"`
	Latitude     float64        `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude    float64        `gorm:"type:decimal(11,8);not null" json:"longitude"`
	AreaMode     string         `gorm:"size:10;not null" json:"area_mode"`
	RadiusKm     *float64       `json:"radius_km,omitempty"`
	Boundary     datatypes.JSON `gorm:"type:jsonb" json:"boundary,omitempty"`
	Approved     bool           `gorm:"not null;default:false;index" json:"approved"`
	Address      string         `gorm:"size:500" json:"address,omitempty"`
	LogoURL      string         `gorm:"type:text" json:"logo_url,omitempty"`
	OpeningHours datatypes.JSON `gorm:"type:jsonb" json:"opening_hours,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Location returns the sanctuary's center point.
func (s *Sanctuary) Location() geo.LatLng {
	return geo.LatLng{Lat: s.Latitude, Lng: s.Longitude}
}

// Area reconstructs the service area from the persisted representation.
func (s *Sanctuary) Area() (geo.Area, error) {
	switch geo.AreaMode(s.AreaMode) {
	case geo.AreaRadius:
		if s.RadiusKm == nil {
			return geo.Area{}, geo.ErrRadiusNotPositive
		}
		return geo.RadiusArea(*s.RadiusKm)
	case geo.AreaPolygon:
		if len(s.Boundary) == 0 {
			return geo.Area{}, geo.ErrBadBoundaryDocument
		}
		ring, err := geo.UnmarshalBoundary(s.Boundary)
		if err != nil {
			return geo.Area{}, err
		}
		return geo.PolygonArea(ring)
	default:
		return geo.Area{}, geo.ErrUnknownAreaMode
	}
}

// SetArea persists the given area, clearing whichever representation the
// sanctuary previously carried.
func (s *Sanctuary) SetArea(a geo.Area) error {
	switch a.Mode {
	case geo.AreaRadius:
		km := a.RadiusKm
		s.AreaMode = string(geo.AreaRadius)
		s.RadiusKm = &km
		s.Boundary = nil
		return nil
	case geo.AreaPolygon:
		doc, err := geo.MarshalBoundary(a.Ring)
		if err != nil {
			return err
		}
		s.AreaMode = string(geo.AreaPolygon)
		s.RadiusKm = nil
		s.Boundary = datatypes.JSON(doc)
		return nil
	default:
		return geo.ErrUnknownAreaMode
	}
}

// ContainsPoint reports whether the sanctuary's service area covers p.
// Unapproved sanctuaries are excluded from public queries at the service
// layer, not here.
func (s *Sanctuary) ContainsPoint(p geo.LatLng) (bool, error) {
	area, err := s.Area()
	if err != nil {
		return false, err
	}
	return area.Contains(s.Location(), p), nil
}
