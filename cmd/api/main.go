// Package main implements the attendance API server and its operator commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	"github.com/go-chi/httplog/v3"
	"github.com/spf13/cobra"

	_ "time/tzdata"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "attendance-api",
	Short: "Employee attendance tracking service",
	Long: `attendance-api records daily check-ins and check-outs, classifies them as
present, late or half-day, and serves personal and team views over HTTP.

Configuration is read from the environment and an optional .env file.`,
	Version:       version,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportCmd)
}

// newLogger builds the process logger in the ECS layout used by request logs.
func newLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-api"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
}

// stores holds the Record Store and Roster selected by STORE_TYPE.
type stores struct {
	attendance attendance.AttendanceRepository
	employees  employee.EmployeeRepository
	db         *database.DB
}

func (s *stores) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Type {
	case config.StoreMemory:
		slog.Warn("using in-memory store, data will not survive a restart")
		return &stores{
			attendance: memory.NewAttendanceRepository(),
			employees:  memory.NewEmployeeRepository(),
		}, nil
	case config.StorePostgres:
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &stores{
			attendance: postgresql.NewAttendanceRepository(db),
			employees:  postgresql.NewEmployeeRepository(db),
			db:         db,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported STORE_TYPE %q", cfg.Store.Type)
	}
}

func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolSettings{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func newAttendanceService(cfg *config.Config, s *stores) attendance.AttendanceService {
	classifier := attendance.NewClassifier(cfg.Thresholds(), cfg.Location())
	return attendanceService.NewAttendanceService(s.attendance, s.employees, classifier)
}
