package dto

import (
	"github.com/google/uuid"
)

type CreateSightingRequest struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Note       string  `json:"note"`
	Visibility string  `json:"visibility"`
}

// DeleteSightingRequest carries the mandatory deletion reason that is
// written to the audit trail before the record is removed.
type DeleteSightingRequest struct {
	Reason string `json:"reason"`
}

type SightingResponse struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Note       string    `json:"note"`
	Visibility string    `json:"visibility"`
	PhotoURLs  []string  `json:"photo_urls,omitempty"`
	CreatedAt  string    `json:"created_at"`
}

type SightingListResponse struct {
	Sightings  []SightingResponse `json:"sightings"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type DeletionLogEntryResponse struct {
	ID         uuid.UUID `json:"id"`
	SightingID uuid.UUID `json:"sighting_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Reason     string    `json:"reason"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Visibility string    `json:"visibility"`
	CreatedAt  string    `json:"created_at"`
}

type DeletionLogResponse struct {
	Entries []DeletionLogEntryResponse `json:"entries"`
	Total   int64                      `json:"total"`
	Page    int                        `json:"page"`
	Limit   int                        `json:"limit"`
}
