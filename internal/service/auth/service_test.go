package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

func newTestService() (*AuthServiceImpl, jwt.Service) {
	jwtService := jwt.NewJWTService(testSecret, testAccessExp)
	svc := NewAuthService(memory.NewEmployeeRepository(), jwtService).(*AuthServiceImpl)
	svc.bcryptCost = bcrypt.MinCost
	return svc, jwtService
}

func strPtr(s string) *string { return &s }

func registerRequest(email, code string) auth.RegisterRequest {
	return auth.RegisterRequest{
		FullName:     "Ana Putri",
		Email:        email,
		Password:     "password123",
		EmployeeCode: code,
		Department:   strPtr("Engineering"),
	}
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("Ana@Example.com", "EMP-001"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, "employee", created.Role)
	assert.Equal(t, "Engineering", *created.Department)

	stored, err := svc.EmployeeRepository.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("password123")))
}

func TestRegister_Duplicates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("ana@example.com", "EMP-001"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("ana@example.com", "EMP-002"))
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	_, err = svc.Register(ctx, registerRequest("other@example.com", "EMP-001"))
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService()

	req := auth.RegisterRequest{Email: "not-an-email", Password: "short", Role: "admin", EmployeeCode: "E"}
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	for _, field := range []string{"name", "email", "password", "role", "employee_code"} {
		assert.Contains(t, fields, field)
	}
}

func TestLogin(t *testing.T) {
	svc, jwtService := newTestService()
	ctx := context.Background()

	req := registerRequest("ana@example.com", "EMP-001")
	req.Role = "manager"
	created, err := svc.Register(ctx, req)
	require.NoError(t, err)

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, created.ID, resp.User.ID)

	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims[jwt.ClaimEmployeeID])
	assert.Equal(t, "manager", claims[jwt.ClaimRole])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("ana@example.com", "EMP-001"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestMeAndListUsers(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("ana@example.com", "EMP-001"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, auth.RegisterRequest{
		FullName: "Budi", Email: "budi@example.com", Password: "password123", EmployeeCode: "EMP-002",
	})
	require.NoError(t, err)

	me, err := svc.Me(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "EMP-001", me.EmployeeCode)

	_, err = svc.Me(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ana Putri", users[0].FullName)
	assert.Equal(t, "Budi", users[1].FullName)
	assert.Equal(t, "", users[1].Department)
}
