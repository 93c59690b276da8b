package employee

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// EmployeeRepository is the roster provider. Lookups return ErrEmployeeNotFound
// when no employee matches.
type EmployeeRepository interface {
	// ListEmployees returns the roster, optionally restricted to one role
	ListEmployees(ctx context.Context, role *user.Role) ([]Employee, error)

	// GetByID looks an employee up by internal identity
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByEmployeeCode looks an employee up by the external employee code
	GetByEmployeeCode(ctx context.Context, employeeCode string) (Employee, error)

	// GetByEmail is used by login
	GetByEmail(ctx context.Context, email string) (Employee, error)

	// Create registers a new employee; duplicate email or code fail with
	// ErrEmailExists / ErrEmployeeCodeExists
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
}
