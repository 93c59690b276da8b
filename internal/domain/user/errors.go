package user

import "errors"

var (
	ErrInvalidRole             = errors.New("role must be employee or manager")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrMissingClaims           = errors.New("employee_id or role claim is missing")
)
