package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL, applies the schema and empties the
// tables. The test is skipped when no database is configured.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolSettings{MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.Migrate(ctx, db))
	_, err = db.Exec(ctx, "TRUNCATE TABLE attendances, employees CASCADE")
	require.NoError(t, err)

	return db
}

func createTestEmployee(t *testing.T, repo employee.EmployeeRepository, code, email string) employee.Employee {
	t.Helper()

	dept := "Engineering"
	created, err := repo.Create(context.Background(), employee.Employee{
		EmployeeCode: code,
		FullName:     "Test " + code,
		Email:        email,
		Department:   &dept,
		Role:         user.RoleEmployee,
	})
	require.NoError(t, err)
	return created
}
