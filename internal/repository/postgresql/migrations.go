package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		employee_code TEXT NOT NULL,
		full_name     TEXT NOT NULL,
		email         TEXT NOT NULL,
		department    TEXT,
		role          TEXT NOT NULL DEFAULT 'employee' CHECK (role IN ('employee', 'manager')),
		password_hash TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT employees_employee_code_key UNIQUE (employee_code),
		CONSTRAINT employees_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS attendances (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		employee_id UUID NOT NULL REFERENCES employees (id) ON DELETE CASCADE,
		date        DATE NOT NULL,
		check_in    TIMESTAMPTZ,
		check_out   TIMESTAMPTZ,
		status      TEXT NOT NULL CHECK (status IN ('present', 'late', 'half-day')),
		total_hours NUMERIC(8, 2) NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT attendances_employee_date_key UNIQUE (employee_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendances_date ON attendances (date)`,
	`CREATE INDEX IF NOT EXISTS idx_attendances_status ON attendances (status)`,
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(ctx context.Context) error {
		q := GetQuerier(ctx, db)
		for i, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration step %d: %w", i+1, err)
			}
		}
		return nil
	})
}
