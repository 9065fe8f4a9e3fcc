package dto

import (
	"github.com/google/uuid"

	"github.com/straypaws/straymap/internal/geo"
)

// SaveSanctuaryRequest is insert-or-update: a present ID updates, an absent
// one creates. AreaMode selects which geometry field is read; the other is
// ignored and cleared.
type SaveSanctuaryRequest struct {
	ID           *uuid.UUID        `json:"id,omitempty"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	AreaMode     string            `json:"area_mode"`
	RadiusKm     *float64          `json:"radius_km,omitempty"`
	Boundary     []geo.LatLng      `json:"boundary,omitempty"`
	Address      string            `json:"address"`
	LogoURL      string            `json:"logo_url"`
	OpeningHours map[string]string `json:"opening_hours,omitempty"`
	CaregiverIDs []uuid.UUID       `json:"caregiver_ids"`
}

type SetApprovalRequest struct {
	Approved bool `json:"approved"`
}

type SanctuaryResponse struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	AreaMode     string            `json:"area_mode"`
	RadiusKm     *float64          `json:"radius_km,omitempty"`
	Boundary     []geo.LatLng      `json:"boundary,omitempty"`
	Approved     bool              `json:"approved"`
	Address      string            `json:"address,omitempty"`
	LogoURL      string            `json:"logo_url,omitempty"`
	OpeningHours map[string]string `json:"opening_hours,omitempty"`
	CaregiverIDs []uuid.UUID       `json:"caregiver_ids,omitempty"`
	CreatedAt    string            `json:"created_at"`
}

type SanctuaryListResponse struct {
	Sanctuaries []SanctuaryResponse `json:"sanctuaries"`
	Count       int                 `json:"count"`
}

// MatchResponse lists the approved sanctuaries whose service area contains
// the queried point.
type MatchResponse struct {
	Point       geo.LatLng          `json:"point"`
	Sanctuaries []SanctuaryResponse `json:"sanctuaries"`
	Count       int                 `json:"count"`
}
