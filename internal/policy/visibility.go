package policy

import "github.com/google/uuid"

// CanView decides whether viewer may read a sighting with the given
// visibility tier and owner. Ownership always grants visibility, whatever
// the tier.
func CanView(vis Visibility, ownerID uuid.UUID, viewer Viewer) bool {
	if viewer.Role != RoleAnonymous && viewer.ID != uuid.Nil && viewer.ID == ownerID {
		return true
	}

	switch vis {
	case VisibilityPublic:
		return true
	case VisibilityCaregiverOnly:
		return viewer.Role == RoleCaregiver || viewer.Role == RoleAdmin
	case VisibilityAdminOnly:
		return viewer.Role == RoleAdmin
	default:
		return false
	}
}

// CanDelete decides whether viewer may delete a sighting. Only the owner
// may delete; there is deliberately no admin bypass (owner-accountability
// model). The deletion reason requirement is enforced at the service layer.
func CanDelete(ownerID uuid.UUID, viewer Viewer) bool {
	return viewer.Role != RoleAnonymous && viewer.ID != uuid.Nil && viewer.ID == ownerID
}

// VisibleTiers returns the tiers the viewer may list without owning the
// record. List queries combine this with an owner_id match so owners always
// see their own submissions.
func VisibleTiers(viewer Viewer) []Visibility {
	switch viewer.Role {
	case RoleAdmin:
		return []Visibility{VisibilityPublic, VisibilityCaregiverOnly, VisibilityAdminOnly}
	case RoleCaregiver:
		return []Visibility{VisibilityPublic, VisibilityCaregiverOnly}
	case RoleUser, RoleAnonymous:
		return []Visibility{VisibilityPublic}
	default:
		return nil
	}
}
