package models

import (
	"time"

	"github.com/google/uuid"
)

// DeletionLog is the append-only audit trail for sighting deletions. The
// log row is written in the same transaction as the delete, before it, so a
// failed audit write aborts the deletion. Rows are never updated or removed.
type DeletionLog struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SightingID uuid.UUID `gorm:"type:uuid;not null;index" json:"sighting_id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Reason     string    `gorm:"not null;size:500" json:"reason"`
	Latitude   float64   `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude  float64   `gorm:"type:decimal(11,8);not null" json:"longitude"`
	Visibility string    `gorm:"size:20;not null" json:"visibility"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (DeletionLog) TableName() string {
	return "deletion_log"
}
