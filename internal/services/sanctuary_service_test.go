package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/straypaws/straymap/internal/dto"
	"github.com/straypaws/straymap/internal/models"
	"github.com/straypaws/straymap/internal/moderation"
)

func seedSanctuary(t *testing.T, db *gorm.DB, name string) models.Sanctuary {
	t.Helper()
	km := 5.0
	sanctuary := models.Sanctuary{
		ID:        uuid.New(),
		Name:      name,
		Latitude:  38.8,
		Longitude: 20.7,
		AreaMode:  "radius",
		RadiusKm:  &km,
		Approved:  true,
	}
	if err := db.Create(&sanctuary).Error; err != nil {
		t.Fatalf("seed sanctuary: %v", err)
	}
	return sanctuary
}

func assignCaregiver(t *testing.T, db *gorm.DB, sanctuaryID, userID uuid.UUID) {
	t.Helper()
	assignment := models.CaregiverAssignment{
		ID:          uuid.New(),
		SanctuaryID: sanctuaryID,
		UserID:      userID,
	}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
}

func TestSaveSanctuaryRollsBackReplaceAllOnFailure(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", "admin@example.com")
	keeper := seedUser(t, db, "caregiver", "keeper@example.com")
	newcomer := seedUser(t, db, "caregiver", "newcomer@example.com")
	sanctuary := seedSanctuary(t, db, "Lefkada Strays")
	assignCaregiver(t, db, sanctuary.ID, keeper.ID)

	// fail the second assignment insert mid-replace
	mustExec(t, db, fmt.Sprintf(`CREATE TRIGGER assignment_block BEFORE INSERT ON caregiver_assignments
		WHEN NEW.user_id = '%s' BEGIN SELECT RAISE(ABORT, 'blocked'); END`, newcomer.ID))

	svc := NewSanctuaryService(db, moderation.NewFilter())
	km := 7.5
	req := &dto.SaveSanctuaryRequest{
		ID:           &sanctuary.ID,
		Name:         "Renamed Shelter",
		Latitude:     38.8,
		Longitude:    20.7,
		AreaMode:     "radius",
		RadiusKm:     &km,
		CaregiverIDs: []uuid.UUID{keeper.ID, newcomer.ID},
	}

	if _, err := svc.Save(admin.ID, req); err == nil {
		t.Fatal("expected save to fail mid-replace")
	}

	var assignments []models.CaregiverAssignment
	if err := db.Where("sanctuary_id = ?", sanctuary.ID).Find(&assignments).Error; err != nil {
		t.Fatalf("load assignments: %v", err)
	}
	if len(assignments) != 1 || assignments[0].UserID != keeper.ID {
		t.Fatalf("assignment set changed after rollback: %+v", assignments)
	}

	var reloaded models.Sanctuary
	if err := db.First(&reloaded, "id = ?", sanctuary.ID).Error; err != nil {
		t.Fatalf("reload sanctuary: %v", err)
	}
	if reloaded.Name != "Lefkada Strays" {
		t.Fatalf("sanctuary row changed after rollback, name = %q", reloaded.Name)
	}
	if reloaded.RadiusKm == nil || *reloaded.RadiusKm != 5.0 {
		t.Fatalf("sanctuary radius changed after rollback: %v", reloaded.RadiusKm)
	}
}

func TestSaveSanctuaryReplacesCaregiversWholesale(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", "admin@example.com")
	keeper := seedUser(t, db, "caregiver", "keeper@example.com")
	newcomer := seedUser(t, db, "caregiver", "newcomer@example.com")
	sanctuary := seedSanctuary(t, db, "Lefkada Strays")
	assignCaregiver(t, db, sanctuary.ID, keeper.ID)

	svc := NewSanctuaryService(db, moderation.NewFilter())
	km := 5.0
	req := &dto.SaveSanctuaryRequest{
		ID:           &sanctuary.ID,
		Name:         "Lefkada Strays",
		Latitude:     38.8,
		Longitude:    20.7,
		AreaMode:     "radius",
		RadiusKm:     &km,
		CaregiverIDs: []uuid.UUID{newcomer.ID},
	}

	resp, err := svc.Save(admin.ID, req)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(resp.CaregiverIDs) != 1 || resp.CaregiverIDs[0] != newcomer.ID {
		t.Fatalf("response caregivers = %v, want [%s]", resp.CaregiverIDs, newcomer.ID)
	}

	var assignments []models.CaregiverAssignment
	if err := db.Where("sanctuary_id = ?", sanctuary.ID).Find(&assignments).Error; err != nil {
		t.Fatalf("load assignments: %v", err)
	}
	if len(assignments) != 1 || assignments[0].UserID != newcomer.ID {
		t.Fatalf("assignments = %+v, want single row for %s", assignments, newcomer.ID)
	}
}

func TestSaveSanctuaryRejectsNonAdmin(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "caregiver", "keeper@example.com")
	svc := NewSanctuaryService(db, moderation.NewFilter())

	km := 5.0
	req := &dto.SaveSanctuaryRequest{
		Name:      "Lefkada Strays",
		Latitude:  38.8,
		Longitude: 20.7,
		AreaMode:  "radius",
		RadiusKm:  &km,
	}

	if _, err := svc.Save(user.ID, req); err != ErrRoleForbidden {
		t.Fatalf("err = %v, want ErrRoleForbidden", err)
	}
}
