package models

import (
	"time"

	"github.com/google/uuid"
)

// CaregiverAssignment pairs a caregiver account with a sanctuary.
// Assignments are replaced wholesale when a sanctuary is saved, inside the
// same transaction as the sanctuary row.
type CaregiverAssignment struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SanctuaryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_pair" json:"sanctuary_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_pair;index" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	Sanctuary   Sanctuary `gorm:"foreignKey:SanctuaryID" json:"-"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
}
