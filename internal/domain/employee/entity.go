package employee

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// UnknownDepartment labels employees without a department in team breakdowns.
const UnknownDepartment = "Unknown"

// Employee is a roster entry. The roster owns identity; attendance records only
// reference it by ID.
type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Email        string
	Department   *string
	Role         user.Role
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DepartmentOrUnknown returns the department name, falling back to UnknownDepartment.
func (e Employee) DepartmentOrUnknown() string {
	if e.Department == nil || *e.Department == "" {
		return UnknownDepartment
	}
	return *e.Department
}

// DepartmentOrEmpty returns the department name or "" when unset.
func (e Employee) DepartmentOrEmpty() string {
	if e.Department == nil {
		return ""
	}
	return *e.Department
}
