package models

// RoleType defines the user role type. Roles are fixed at registration, there
// is no role-change path.
type RoleType string

const (
	RoleAdmin     RoleType = "ADMIN"
	RoleCounselor RoleType = "COUNSELOR"
	RoleStudent   RoleType = "STUDENT"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role RoleType) bool {
	switch role {
	case RoleAdmin, RoleCounselor, RoleStudent:
		return true
	}
	return false
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID int64
	Email  string
	Name   string
	Role   RoleType
}

// IsStudent reports whether the identity has the student role.
func (i Identity) IsStudent() bool { return i.Role == RoleStudent }

// IsCounselor reports whether the identity has the counselor role.
func (i Identity) IsCounselor() bool { return i.Role == RoleCounselor }

// IsAdmin reports whether the identity has the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
