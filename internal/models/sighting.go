package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sighting is a user-submitted stray-animal observation. Records are
// immutable after creation; the only mutation is owner deletion, which goes
// through the deletion log first.
type Sighting struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Latitude   float64        `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude  float64        `gorm:"type:decimal(11,8);not null" json:"longitude"`
	Note       string         `gorm:"not null;size:1000" json:"note"`
	Visibility string         `gorm:"size:20;not null;default:'public';index" json:"visibility"`
	PhotoURLs  datatypes.JSON `gorm:"type:jsonb" json:"photo_urls,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	Owner      User           `gorm:"foreignKey:OwnerID" json:"-"`
}
