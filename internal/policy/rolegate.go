package policy

// Administrative operations are restricted to the admin role. The HTTP
// middleware rejects early for UX, but the services re-check the stored
// profile role before touching storage; the service is the boundary, not
// the client.

// CanManageSanctuaries reports whether the role may create, update, approve
// or delete sanctuaries and their caregiver assignments.
func CanManageSanctuaries(r Role) bool {
	return r == RoleAdmin
}

// CanSwitchRoles reports whether the role may change another account's role.
func CanSwitchRoles(r Role) bool {
	return r == RoleAdmin
}

// CanReadDeletionLog reports whether the role may read the sighting
// deletion audit trail.
func CanReadDeletionLog(r Role) bool {
	return r == RoleAdmin
}
