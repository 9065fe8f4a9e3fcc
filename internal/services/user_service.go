package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/straypaws/straymap/internal/dto"
	"github.com/straypaws/straymap/internal/models"
	"github.com/straypaws/straymap/internal/policy"
)

var (
	ErrRoleForbidden = errors.New("only administrators may perform this operation")
	ErrLastAdmin     = errors.New("cannot demote the last administrator")
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetProfile returns the account backing a session.
func (s *UserService) GetProfile(userID uuid.UUID) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &dto.UserResponse{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// ViewerFor loads the stored profile role for a session. The JWT carries a
// role claim as a fast path, but authorization decisions read the profile,
// so a stale or tampered claim never widens access.
func (s *UserService) ViewerFor(userID uuid.UUID) (policy.Viewer, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return policy.Anonymous(), ErrUserNotFound
	}
	role, err := policy.ParseRole(user.Role)
	if err != nil {
		return policy.Anonymous(), err
	}
	return policy.Viewer{ID: user.ID, Role: role}, nil
}

// SwitchRole changes another account's role. Only admins may call it, the
// target role must be one of the closed set, and the last admin cannot be
// demoted.
func (s *UserService) SwitchRole(actorID, targetID uuid.UUID, newRole string) (*dto.UserResponse, error) {
	actor, err := s.ViewerFor(actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanSwitchRoles(actor.Role) {
		return nil, ErrRoleForbidden
	}

	role, err := policy.ParseRole(newRole)
	if err != nil {
		return nil, err
	}

	var target models.User
	if err := s.db.First(&target, "id = ?", targetID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if target.Role == string(policy.RoleAdmin) && role != policy.RoleAdmin {
		var admins int64
		if err := s.db.Model(&models.User{}).Where("role = ?", policy.RoleAdmin).Count(&admins).Error; err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	if err := s.db.Model(&target).Update("role", string(role)).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	target.Role = string(role)

	return &dto.UserResponse{ID: target.ID, Email: target.Email, Role: target.Role}, nil
}
