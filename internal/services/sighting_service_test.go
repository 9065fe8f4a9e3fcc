package services

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/straypaws/straymap/internal/models"
	"github.com/straypaws/straymap/internal/moderation"
	"github.com/straypaws/straymap/internal/policy"
)

func seedSighting(t *testing.T, db *gorm.DB, ownerID uuid.UUID) models.Sighting {
	t.Helper()
	sighting := models.Sighting{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Latitude:   38.8,
		Longitude:  20.7,
		Note:       "thin grey cat near the harbour",
		Visibility: "public",
	}
	if err := db.Create(&sighting).Error; err != nil {
		t.Fatalf("seed sighting: %v", err)
	}
	return sighting
}

func TestDeleteSightingAbortsWhenAuditWriteFails(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "user", "owner@example.com")
	sighting := seedSighting(t, db, owner.ID)
	svc := NewSightingService(db, moderation.NewFilter())
	viewer := policy.Viewer{ID: owner.ID, Role: policy.RoleUser}

	mustExec(t, db, `CREATE TRIGGER deletion_log_block BEFORE INSERT ON deletion_log
		BEGIN SELECT RAISE(ABORT, 'audit sink unavailable'); END`)

	if err := svc.Delete(sighting.ID, viewer, "duplicate report"); err == nil {
		t.Fatal("expected delete to fail when the audit write fails")
	}

	var sightings int64
	if err := db.Model(&models.Sighting{}).Count(&sightings).Error; err != nil {
		t.Fatalf("count sightings: %v", err)
	}
	if sightings != 1 {
		t.Fatalf("sighting was removed despite the failed audit write, count = %d", sightings)
	}

	var entries int64
	if err := db.Model(&models.DeletionLog{}).Count(&entries).Error; err != nil {
		t.Fatalf("count deletion log: %v", err)
	}
	if entries != 0 {
		t.Fatalf("deletion log has %d entries, want 0", entries)
	}
}

func TestDeleteSightingWritesAuditEntry(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "user", "owner@example.com")
	sighting := seedSighting(t, db, owner.ID)
	svc := NewSightingService(db, moderation.NewFilter())
	viewer := policy.Viewer{ID: owner.ID, Role: policy.RoleUser}

	if err := svc.Delete(sighting.ID, viewer, "duplicate report"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var sightings int64
	if err := db.Model(&models.Sighting{}).Count(&sightings).Error; err != nil {
		t.Fatalf("count sightings: %v", err)
	}
	if sightings != 0 {
		t.Fatalf("sighting still present after delete, count = %d", sightings)
	}

	var entry models.DeletionLog
	if err := db.First(&entry, "sighting_id = ?", sighting.ID).Error; err != nil {
		t.Fatalf("deletion log entry missing: %v", err)
	}
	if entry.OwnerID != owner.ID {
		t.Fatalf("entry owner = %s, want %s", entry.OwnerID, owner.ID)
	}
	if entry.Reason != "duplicate report" {
		t.Fatalf("entry reason = %q", entry.Reason)
	}
	if entry.Latitude != sighting.Latitude || entry.Longitude != sighting.Longitude {
		t.Fatalf("entry snapshot = (%v, %v), want (%v, %v)",
			entry.Latitude, entry.Longitude, sighting.Latitude, sighting.Longitude)
	}
	if entry.Visibility != sighting.Visibility {
		t.Fatalf("entry visibility = %q, want %q", entry.Visibility, sighting.Visibility)
	}
}

func TestDeleteSightingRefusesNonOwnerAdmin(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "user", "owner@example.com")
	admin := seedUser(t, db, "admin", "admin@example.com")
	sighting := seedSighting(t, db, owner.ID)
	svc := NewSightingService(db, moderation.NewFilter())

	err := svc.Delete(sighting.ID, policy.Viewer{ID: admin.ID, Role: policy.RoleAdmin}, "cleanup")
	if err != ErrNotOwner {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}

	var sightings int64
	if err := db.Model(&models.Sighting{}).Count(&sightings).Error; err != nil {
		t.Fatalf("count sightings: %v", err)
	}
	if sightings != 1 {
		t.Fatalf("sighting count = %d, want 1", sightings)
	}
}
