package auth

// Role is the access level carried in the access token.
type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can manage rates and day status
	RoleEmployee Role = "employee" // Regular employee
)

// CanManage reports whether the role may run administrative actions.
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleManager
}

// Identity is the already-authenticated caller extracted from the token.
type Identity struct {
	UserID     string
	EmployeeID string
	Role       Role
}
