package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
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
	ErrSightingNotFound = errors.New("sighting not found")
	ErrNoteRequired     = errors.New("note is required")
	ErrNoteTooLong      = errors.New("note must be at most 1000 characters")
	ErrNoteRejected     = errors.New("note rejected")
	ErrNotOwner         = errors.New("only the owner may delete a sighting")
	ErrReasonRequired   = errors.New("a deletion reason is required")
	ErrReasonTooLong    = errors.New("deletion reason must be at most 500 characters")
)

type SightingService struct {
	db     *gorm.DB
	filter *moderation.Filter
}

func NewSightingService(db *gorm.DB, filter *moderation.Filter) *SightingService {
	return &SightingService{db: db, filter: filter}
}

// Create stores a new sighting. Records are immutable once created.
func (s *SightingService) Create(ownerID uuid.UUID, req *dto.CreateSightingRequest, photoURLs []string) (*dto.SightingResponse, error) {
	point := geo.LatLng{Lat: req.Latitude, Lng: req.Longitude}
	if err := point.Validate(); err != nil {
		return nil, err
	}

	note := strings.TrimSpace(req.Note)
	if note == "" {
		return nil, ErrNoteRequired
	}
	if len(note) > 1000 {
		return nil, ErrNoteTooLong
	}
	if ok, reason := s.filter.Check(note); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoteRejected, moderation.RejectionMessage(reason))
	}

	visibility := policy.VisibilityPublic
	if req.Visibility != "" {
		var err error
		visibility, err = policy.ParseVisibility(req.Visibility)
		if err != nil {
			return nil, err
		}
	}

	sighting := models.Sighting{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Latitude:   point.Lat,
		Longitude:  point.Lng,
		Note:       note,
		Visibility: string(visibility),
	}
	if len(photoURLs) > 0 {
		b, err := json.Marshal(photoURLs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode photo urls: %w", err)
		}
		sighting.PhotoURLs = datatypes.JSON(b)
	}

	if err := s.db.Create(&sighting).Error; err != nil {
		return nil, fmt.Errorf("failed to create sighting: %w", err)
	}

	return mapSightingToResponse(&sighting), nil
}

// List returns the sightings the viewer may see, newest first. The policy
// is folded into the query: non-owners see only their visible tiers, owners
// always see their own rows.
func (s *SightingService) List(viewer policy.Viewer, page, limit int) (*dto.SightingListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	tiers := policy.VisibleTiers(viewer)
	tierStrings := make([]string, len(tiers))
	for i, t := range tiers {
		tierStrings[i] = string(t)
	}

	query := s.db.Model(&models.Sighting{})
	if viewer.Role == policy.RoleAnonymous {
		query = query.Where("visibility IN ?", tierStrings)
	} else {
		query = query.Where("visibility IN ? OR owner_id = ?", tierStrings, viewer.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var sightings []models.Sighting
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&sightings).Error; err != nil {
		return nil, err
	}

	resp := &dto.SightingListResponse{
		Sightings:  make([]dto.SightingResponse, len(sightings)),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
	for i := range sightings {
		resp.Sightings[i] = *mapSightingToResponse(&sightings[i])
	}
	return resp, nil
}

// Get returns one sighting if the viewer may read it. Records the viewer
// may not read present as not found, so their existence does not leak.
func (s *SightingService) Get(id uuid.UUID, viewer policy.Viewer) (*dto.SightingResponse, error) {
	var sighting models.Sighting
	if err := s.db.First(&sighting, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSightingNotFound
		}
		return nil, err
	}

	vis, err := policy.ParseVisibility(sighting.Visibility)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(vis, sighting.OwnerID, viewer) {
		return nil, ErrSightingNotFound
	}

	return mapSightingToResponse(&sighting), nil
}

// Delete removes a sighting. Only the owner may delete, a non-empty reason
// is mandatory, and the audit record is written inside the same transaction
// before the row is removed. If the audit write fails, the sighting stays.
func (s *SightingService) Delete(id uuid.UUID, viewer policy.Viewer, reason string) error {
	var sighting models.Sighting
	if err := s.db.First(&sighting, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSightingNotFound
		}
		return err
	}

	if !policy.CanDelete(sighting.OwnerID, viewer) {
		return ErrNotOwner
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if len(reason) > 500 {
		return ErrReasonTooLong
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		entry := models.DeletionLog{
			ID:         uuid.New(),
			SightingID: sighting.ID,
			OwnerID:    sighting.OwnerID,
			Reason:     reason,
			Latitude:   sighting.Latitude,
			Longitude:  sighting.Longitude,
			Visibility: sighting.Visibility,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to write deletion log: %w", err)
		}
		return tx.Delete(&sighting).Error
	})
}

// ListDeletionLog pages through the audit trail, newest first. Admin only.
func (s *SightingService) ListDeletionLog(viewer policy.Viewer, page, limit int) (*dto.DeletionLogResponse, error) {
	if !policy.CanReadDeletionLog(viewer.Role) {
		return nil, ErrRoleForbidden
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	var total int64
	if err := s.db.Model(&models.DeletionLog{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var entries []models.DeletionLog
	if err := s.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, err
	}

	resp := &dto.DeletionLogResponse{
		Entries: make([]dto.DeletionLogEntryResponse, len(entries)),
		Total:   total,
		Page:    page,
		Limit:   limit,
	}
	for i, e := range entries {
		resp.Entries[i] = dto.DeletionLogEntryResponse{
			ID:         e.ID,
			SightingID: e.SightingID,
			OwnerID:    e.OwnerID,
			Reason:     e.Reason,
			Latitude:   e.Latitude,
			Longitude:  e.Longitude,
			Visibility: e.Visibility,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func mapSightingToResponse(m *models.Sighting) *dto.SightingResponse {
	resp := &dto.SightingResponse{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		Latitude:   m.Latitude,
		Longitude:  m.Longitude,
		Note:       m.Note,
		Visibility: m.Visibility,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
	if len(m.PhotoURLs) > 0 {
		var urls []string
		if err := json.Unmarshal(m.PhotoURLs, &urls); err == nil {
			resp.PhotoURLs = urls
		}
	}
	return resp
}
