package auth

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

type AuthService interface {
	// Register adds an employee to the roster with a hashed password
	Register(ctx context.Context, req RegisterRequest) (employee.EmployeeResponse, error)

	// Login verifies credentials and issues an access token
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)

	// Me returns the caller's roster entry
	Me(ctx context.Context, employeeID string) (employee.EmployeeResponse, error)

	// ListUsers returns the roster listing
	ListUsers(ctx context.Context) ([]UserSummary, error)
}
