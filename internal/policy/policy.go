// Package policy holds the authorization rules for sightings and
// administrative operations. Roles and visibility tiers are closed
// enumerations; every check switches exhaustively so an unknown value can
// never grant access.
package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnknownRole       = errors.New("unknown role")
	ErrUnknownVisibility = errors.New("unknown visibility")
)

// Role is the single authoritative role of an account. Anonymous is the
// implied role of a request without a session; it is never stored.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleCaregiver Role = "caregiver"
	RoleAdmin     Role = "admin"
)

// ParseRole maps a stored profile role string onto the closed enum. The
// anonymous role cannot be parsed from storage.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleCaregiver:
		return RoleCaregiver, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// AssignableRoles are the roles an admin may switch an account to.
func AssignableRoles() []Role {
	return []Role{RoleUser, RoleCaregiver, RoleAdmin}
}

// Visibility is the audience tier of a sighting.
type Visibility string

const (
	VisibilityPublic        Visibility = "public"
	VisibilityCaregiverOnly Visibility = "caregiver_only"
	VisibilityAdminOnly     Visibility = "admin_only"
)

func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(strings.ToLower(strings.TrimSpace(s))) {
	case VisibilityPublic:
		return VisibilityPublic, nil
	case VisibilityCaregiverOnly:
		return VisibilityCaregiverOnly, nil
	case VisibilityAdminOnly:
		return VisibilityAdminOnly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVisibility, s)
	}
}

// Viewer is the identity a request acts as. An anonymous request has
// Role == RoleAnonymous and a nil ID.
type Viewer struct {
	ID   uuid.UUID
	Role Role
}

// Anonymous is the viewer of an unauthenticated request.
func Anonymous() Viewer {
	return Viewer{ID: uuid.Nil, Role: RoleAnonymous}
}
