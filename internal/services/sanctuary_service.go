package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/straypaws/straymap/internal/dto"
	"github.com/straypaws/straymap/internal/geo"
	"github.com/straypaws/straymap/internal/models"
	"github.com/straypaws/straymap/internal/moderation"
	"github.com/straypaws/straymap/internal/policy"
)

var (
	ErrSanctuaryNotFound   = errors.New("sanctuary not found")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name must be at most 255 characters")
	ErrCaregiverNotFound   = errors.New("caregiver id does not reference an existing user")
	ErrDescriptionRejected = errors.New("description rejected")
)

type SanctuaryService struct {
	db     *gorm.DB
	filter *moderation.Filter
}

func NewSanctuaryService(db *gorm.DB, filter *moderation.Filter) *SanctuaryService {
	return &SanctuaryService{db: db, filter: filter}
}

// requireAdmin re-checks the stored profile role before any admin mutation
// touches storage. The HTTP middleware is a fast path, not the boundary.
func requireAdmin(db *gorm.DB, actorID uuid.UUID) error {
	var actor models.User
	if err := db.First(&actor, "id = ?", actorID).Error; err != nil {
		return ErrUserNotFound
	}
	role, err := policy.ParseRole(actor.Role)
	if err != nil {
		return err
	}
	if !policy.CanManageSanctuaries(role) {
		return ErrRoleForbidden
	}
	return nil
}

// Save is insert-or-update keyed by id presence. The caregiver assignment
// set is replaced wholesale in the same transaction as the sanctuary row,
// so a failure can never leave a sanctuary with zero caregivers.
func (s *SanctuaryService) Save(actorID uuid.UUID, req *dto.SaveSanctuaryRequest) (*dto.SanctuaryResponse, error) {
	if err := requireAdmin(s.db, actorID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(name) > 255 {
		return nil, ErrNameTooLong
	}
	if ok, reason := s.filter.Check(req.Description); !ok {
		return nil, fmt.Errorf("%w: %s", ErrDescriptionRejected, moderation.RejectionMessage(reason))
	}

	location := geo.LatLng{Lat: req.Latitude, Lng: req.Longitude}
	if err := location.Validate(); err != nil {
		return nil, err
	}

	area, err := areaFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := geo.ValidateOpeningHours(req.OpeningHours); err != nil {
		return nil, err
	}

	caregiverIDs := dedupeIDs(req.CaregiverIDs)
	if len(caregiverIDs) > 0 {
		var count int64
		if err := s.db.Model(&models.User{}).Where("id IN ?", caregiverIDs).Count(&count).Error; err != nil {
			return nil, err
		}
		if count != int64(len(caregiverIDs)) {
			return nil, ErrCaregiverNotFound
		}
	}

	var sanctuary models.Sanctuary
	if req.ID != nil {
		if err := s.db.First(&sanctuary, "id = ?", *req.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSanctuaryNotFound
			}
			return nil, err
		}
	} else {
		sanctuary.ID = uuid.New()
	}

	sanctuary.Name = name
	sanctuary.Description = strings.TrimSpace(req.Description)
	sanctuary.Latitude = location.Lat
	sanctuary.Longitude = location.Lng
	sanctuary.Address = strings.TrimSpace(req.Address)
	sanctuary.LogoURL = strings.TrimSpace(req.LogoURL)
	if err := sanctuary.SetArea(area); err != nil {
		return nil, err
	}
	if len(req.OpeningHours) > 0 {
		b, err := json.Marshal(req.OpeningHours)
		if err != nil {
			return nil, fmt.Errorf("failed to encode opening hours: %w", err)
		}
		sanctuary.OpeningHours = datatypes.JSON(b)
	} else {
		sanctuary.OpeningHours = nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&sanctuary).Error; err != nil {
			return fmt.Errorf("failed to save sanctuary: %w", err)
		}
		if err := tx.Where("sanctuary_id = ?", sanctuary.ID).Delete(&models.CaregiverAssignment{}).Error; err != nil {
			return fmt.Errorf("failed to clear caregiver assignments: %w", err)
		}
		for _, userID := range caregiverIDs {
			assignment := models.CaregiverAssignment{
				ID:          uuid.New(),
				SanctuaryID: sanctuary.ID,
				UserID:      userID,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return fmt.Errorf("failed to create caregiver assignment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.mapSanctuaryToResponse(&sanctuary, caregiverIDs), nil
}

// SetApproval toggles the approved flag. Unapproved sanctuaries are
// excluded from every public query.
func (s *SanctuaryService) SetApproval(actorID, id uuid.UUID, approved bool) (*dto.SanctuaryResponse, error) {
	if err := requireAdmin(s.db, actorID); err != nil {
		return nil, err
	}

	var sanctuary models.Sanctuary
	if err := s.db.First(&sanctuary, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSanctuaryNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&sanctuary).Update("approved", approved).Error; err != nil {
		return nil, err
	}
	sanctuary.Approved = approved

	return s.mapSanctuaryToResponse(&sanctuary, s.caregiverIDsFor(sanctuary.ID)), nil
}

// Delete removes a sanctuary and its caregiver assignments in one
// transaction.
func (s *SanctuaryService) Delete(actorID, id uuid.UUID) error {
	if err := requireAdmin(s.db, actorID); err != nil {
		return err
	}

	var sanctuary models.Sanctuary
	if err := s.db.First(&sanctuary, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSanctuaryNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sanctuary_id = ?", id).Delete(&models.CaregiverAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sanctuary).Error
	})
}

// List returns approved sanctuaries; admins may ask for the full set.
func (s *SanctuaryService) List(includeUnapproved bool) (*dto.SanctuaryListResponse, error) {
	query := s.db.Model(&models.Sanctuary{})
	if !includeUnapproved {
		query = query.Where("approved = true")
	}

	var sanctuaries []models.Sanctuary
	if err := query.Order("name ASC").Find(&sanctuaries).Error; err != nil {
		return nil, err
	}

	resp := &dto.SanctuaryListResponse{
		Sanctuaries: make([]dto.SanctuaryResponse, len(sanctuaries)),
		Count:       len(sanctuaries),
	}
	for i := range sanctuaries {
		resp.Sanctuaries[i] = *s.mapSanctuaryToResponse(&sanctuaries[i], s.caregiverIDsFor(sanctuaries[i].ID))
	}
	return resp, nil
}

// Get returns one sanctuary. Unapproved ones are not found unless the
// caller is allowed to see drafts.
func (s *SanctuaryService) Get(id uuid.UUID, includeUnapproved bool) (*dto.SanctuaryResponse, error) {
	var sanctuary models.Sanctuary
	if err := s.db.First(&sanctuary, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSanctuaryNotFound
		}
		return nil, err
	}
	if !sanctuary.Approved && !includeUnapproved {
		return nil, ErrSanctuaryNotFound
	}
	return s.mapSanctuaryToResponse(&sanctuary, s.caregiverIDsFor(sanctuary.ID)), nil
}

// Match classifies a point against every approved sanctuary's service area.
// A sanctuary with unreadable geometry is skipped and logged rather than
// failing the whole query.
func (s *SanctuaryService) Match(point geo.LatLng) (*dto.MatchResponse, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	var sanctuaries []models.Sanctuary
	if err := s.db.Where("approved = true").Find(&sanctuaries).Error; err != nil {
		return nil, err
	}

	resp := &dto.MatchResponse{Point: point}
	for i := range sanctuaries {
		inside, err := sanctuaries[i].ContainsPoint(point)
		if err != nil {
			slog.Error("sanctuary has unreadable geometry", "sanctuary_id", sanctuaries[i].ID, "error", err)
			continue
		}
		if inside {
			resp.Sanctuaries = append(resp.Sanctuaries, *s.mapSanctuaryToResponse(&sanctuaries[i], nil))
		}
	}
	resp.Count = len(resp.Sanctuaries)
	return resp, nil
}

func areaFromRequest(req *dto.SaveSanctuaryRequest) (geo.Area, error) {
	switch geo.AreaMode(req.AreaMode) {
	case geo.AreaRadius:
		if req.RadiusKm == nil {
			return geo.Area{}, geo.ErrRadiusNotPositive
		}
		return geo.RadiusArea(*req.RadiusKm)
	case geo.AreaPolygon:
		return geo.PolygonArea(req.Boundary)
	default:
		return geo.Area{}, geo.ErrUnknownAreaMode
	}
}

func (s *SanctuaryService) caregiverIDsFor(sanctuaryID uuid.UUID) []uuid.UUID {
	var assignments []models.CaregiverAssignment
	if err := s.db.Where("sanctuary_id = ?", sanctuaryID).Find(&assignments).Error; err != nil {
		slog.Error("failed to load caregiver assignments", "sanctuary_id", sanctuaryID, "error", err)
		return nil
	}
	ids := make([]uuid.UUID, len(assignments))
	for i, a := range assignments {
		ids[i] = a.UserID
	}
	return ids
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *SanctuaryService) mapSanctuaryToResponse(m *models.Sanctuary, caregiverIDs []uuid.UUID) *dto.SanctuaryResponse {
	resp := &dto.SanctuaryResponse{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Latitude:     m.Latitude,
		Longitude:    m.Longitude,
		AreaMode:     m.AreaMode,
		RadiusKm:     m.RadiusKm,
		Approved:     m.Approved,
		Address:      m.Address,
		LogoURL:      m.LogoURL,
		CaregiverIDs: caregiverIDs,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
	if len(m.Boundary) > 0 {
		if ring, err := geo.UnmarshalBoundary(m.Boundary); err == nil {
			resp.Boundary = ring
		}
	}
	if len(m.OpeningHours) > 0 {
		var hours map[string]string
		if err := json.Unmarshal(m.OpeningHours, &hours); err == nil {
			resp.OpeningHours = hours
		}
	}
	return resp
}
