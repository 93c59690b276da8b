package user

type Role string

const (
	RoleManager  Role = "manager"  // Team oversight, exports, summaries
	RoleEmployee Role = "employee" // Self-service check-in/out
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleManager || r == RoleEmployee
}

// IsManager checks if the role may run team-scoped queries
func (r Role) IsManager() bool {
	return r == RoleManager
}

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	EmployeeID string
	Role       Role
}

// RequireManager returns ErrManagerAccessRequired unless the actor is a manager.
func (a Actor) RequireManager() error {
	if !a.Role.IsManager() {
		return ErrManagerAccessRequired
	}
	return nil
}
