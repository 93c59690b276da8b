package employee

// IdentityResponse is the roster identity attached to attendance views.
type IdentityResponse struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
	Email        string `json:"email,omitempty"`
	Department   string `json:"department,omitempty"`
}

// EmployeeResponse is the public shape of a roster entry.
type EmployeeResponse struct {
	ID           string  `json:"id"`
	EmployeeCode string  `json:"employee_code"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Department   *string `json:"department,omitempty"`
	Role         string  `json:"role"`
	CreatedAt    string  `json:"created_at"`
}

func ToIdentity(e Employee) IdentityResponse {
	return IdentityResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Email:        e.Email,
		Department:   e.DepartmentOrEmpty(),
	}
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Email:        e.Email,
		Department:   e.Department,
		Role:         string(e.Role),
		CreatedAt:    e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
