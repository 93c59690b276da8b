package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type employeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository() employee.EmployeeRepository {
	return &employeeRepository{
		employees: make(map[string]employee.Employee),
	}
}

// ListEmployees implements employee.EmployeeRepository.
func (e *employeeRepository) ListEmployees(ctx context.Context, role *user.Role) ([]employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	result := make([]employee.Employee, 0, len(e.employees))
	for _, emp := range e.employees {
		if role != nil && emp.Role != *role {
			continue
		}
		result = append(result, emp)
	}
	e.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].FullName != result[j].FullName {
			return result[i].FullName < result[j].FullName
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.find(ctx, func(emp employee.Employee) bool { return emp.ID == id })
}

// GetByEmployeeCode implements employee.EmployeeRepository.
func (e *employeeRepository) GetByEmployeeCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	return e.find(ctx, func(emp employee.Employee) bool { return emp.EmployeeCode == employeeCode })
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return e.find(ctx, func(emp employee.Employee) bool { return strings.EqualFold(emp.Email, email) })
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return employee.Employee{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, emp := range e.employees {
		if strings.EqualFold(emp.Email, newEmployee.Email) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		if emp.EmployeeCode == newEmployee.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}

	if newEmployee.ID == "" {
		newEmployee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now

	e.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (e *employeeRepository) find(ctx context.Context, match func(employee.Employee) bool) (employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return employee.Employee{}, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, emp := range e.employees {
		if match(emp) {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}
