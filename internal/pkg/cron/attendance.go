package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/duration"
)

const openSessionReminderJob = "open_session_reminder"

// AttendanceJobs holds the attendance background jobs.
type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	notifier       notification.Notifier
	remindAfter    time.Duration
	interval       time.Duration
	loc            *time.Location
	now            func() time.Time

	mu sync.Mutex
	// reminded holds employee|date|session keys already notified.
	reminded map[string]struct{}
	day      string
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	notifier notification.Notifier,
	remindAfter time.Duration,
	interval time.Duration,
	loc *time.Location,
) *AttendanceJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		notifier:       notifier,
		remindAfter:    remindAfter,
		interval:       interval,
		loc:            loc,
		now:            time.Now,
		reminded:       make(map[string]struct{}),
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(openSessionReminderJob, j.interval, j.RemindOpenSessions)
}

// RemindOpenSessions notifies employees whose current session has been open
// longer than the reminder threshold. Each session is reminded once.
func (j *AttendanceJobs) RemindOpenSessions(ctx context.Context) error {
	now := j.now().In(j.loc)
	workDate := now.Format(attendance.DateLayout)

	days, err := j.attendanceRepo.ListOpenSessions(ctx, workDate)
	if err != nil {
		return fmt.Errorf("failed to list open sessions: %w", err)
	}

	j.mu.Lock()
	if j.day != workDate {
		j.day = workDate
		j.reminded = make(map[string]struct{})
	}
	j.mu.Unlock()

	sent := 0
	for i := range days {
		day := &days[i]
		checkIns := day.SortedCheckIns()
		if len(checkIns) == 0 || !day.HasOpenSession() {
			continue
		}
		last := checkIns[len(checkIns)-1]
		open := now.Sub(last.Time)
		if open < j.remindAfter {
			continue
		}

		key := fmt.Sprintf("%s|%s|%d", day.EmployeeID, day.WorkDate, len(checkIns))
		j.mu.Lock()
		_, done := j.reminded[key]
		j.mu.Unlock()
		if done {
			continue
		}

		err := j.notifier.Notify(ctx, notification.Notification{
			Recipients: []string{day.EmployeeID},
			Type:       notification.TypeAttendanceOpenReminder,
			Title:      "You are still checked in",
			Body: fmt.Sprintf("Session %d started at %s has been open for %s",
				len(checkIns), last.Time.In(j.loc).Format("15:04"), duration.FormatMinutes(duration.ElapsedMinutes(last.Time, now))),
			Payload: map[string]interface{}{
				"date":    day.WorkDate,
				"session": len(checkIns),
			},
		})
		if err != nil {
			slog.Warn("Cron: Failed to send open session reminder",
				"employee_id", day.EmployeeID,
				"date", day.WorkDate,
				"error", err)
			continue
		}

		j.mu.Lock()
		j.reminded[key] = struct{}{}
		j.mu.Unlock()
		sent++
	}

	if sent > 0 {
		slog.Info("Cron: Open session reminders sent", "count", sent, "date", workDate)
	}
	return nil
}
