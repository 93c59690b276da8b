package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
)

// TeamSnapshotJobName is the scheduler name of the team gauge refresh.
const TeamSnapshotJobName = "team_attendance_snapshot"

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	interval          time.Duration
	now               func() time.Time
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		interval:          interval,
		now:               time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(TeamSnapshotJobName, j.interval, j.SnapshotTeam)
}

// SnapshotTeam recomputes today's team summary and publishes it to the team gauges.
func (j *AttendanceJobs) SnapshotTeam(ctx context.Context) error {
	summary, err := j.attendanceService.SummarizeToday(ctx, j.now())
	if err != nil {
		return fmt.Errorf("summarize team attendance: %w", err)
	}

	metrics.UpdateTeamSnapshot(summary.TotalEmployees, summary.PresentToday, summary.LateToday, len(summary.AbsentToday))
	slog.DebugContext(ctx, "team attendance snapshot updated",
		"date", summary.Date,
		"roster", summary.TotalEmployees,
		"present", summary.PresentToday,
		"late", summary.LateToday,
		"absent", len(summary.AbsentToday),
	)
	return nil
}
