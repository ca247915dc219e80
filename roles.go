package accounts

// Role is an account's role within the fixed hierarchy.
type Role string

const (
	// RoleGuest can only read.
	RoleGuest Role = "guest"
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "user"
	// RoleModerator may mutate accounts below moderator level.
	RoleModerator Role = "moderator"
	// RoleAdmin may mutate any account except itself.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin is the top of the hierarchy.
	RoleSuperAdmin Role = "super_admin"
)

var roleHierarchy = map[Role]int{
	RoleGuest:      0,
	RoleUser:       1,
	RoleModerator:  2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	_, ok := roleHierarchy[r]
	return ok
}

// Level returns the role's position in the hierarchy. Unknown roles sit
// below guest.
func (r Role) Level() int {
	if level, ok := roleHierarchy[r]; ok {
		return level
	}
	return -1
}

// IsAtLeast checks if this role meets the minimum required level
func (r Role) IsAtLeast(minRole Role) bool {
	if !r.IsValid() || !minRole.IsValid() {
		return false
	}
	return r.Level() >= minRole.Level()
}

// AllRoles returns all predefined roles in hierarchical order
func AllRoles() []Role {
	return []Role{
		RoleGuest,
		RoleUser,
		RoleModerator,
		RoleAdmin,
		RoleSuperAdmin,
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}
