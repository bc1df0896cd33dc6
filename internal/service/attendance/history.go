package attendance

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// History implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) History(ctx context.Context, employeeID string, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	offset := (filter.Page - 1) * filter.Limit
	days, total, err := s.AttendanceRepository.ListHistory(ctx, employeeID, filter.Limit, offset)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to list attendance history: %w", err)
	}

	entries := make([]attendance.HistoryEntry, 0, len(days))
	for _, day := range days {
		entries = append(entries, s.historyEntry(day))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", offset+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 || offset >= int(total) {
		showing = fmt.Sprintf("0 of %d", total)
	}

	return attendance.HistoryResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Entries:    entries,
	}, nil
}

func (s *AttendanceServiceImpl) historyEntry(day attendance.AttendanceDay) attendance.HistoryEntry {
	entry := attendance.HistoryEntry{
		Date:       day.WorkDate,
		Status:     day.Status,
		TotalHours: orEmpty(day.TotalHours),
		Overtime:   orEmpty(day.Overtime),
		Sessions:   []string{},
	}
	if d, err := time.Parse(attendance.DateLayout, day.WorkDate); err == nil {
		entry.Weekday = d.Weekday().String()
	}

	for _, detail := range s.expandSessions(day) {
		in := detail.CheckInTime.In(s.loc).Format("15:04")
		if detail.CheckOutTime == nil {
			entry.Sessions = append(entry.Sessions, fmt.Sprintf("Session %d: %s - ... (%s)", detail.Session, in, detail.Duration))
			continue
		}
		out := detail.CheckOutTime.In(s.loc).Format("15:04")
		entry.Sessions = append(entry.Sessions, fmt.Sprintf("Session %d: %s - %s (%s)", detail.Session, in, out, detail.Duration))
	}

	entry.Summary = s.historySummary(day, len(entry.Sessions))
	return entry
}

func (s *AttendanceServiceImpl) historySummary(day attendance.AttendanceDay, sessions int) string {
	class := s.classify(day)
	switch class {
	case attendance.ClassOnLeave, attendance.ClassAbsent:
		return class
	}

	noun := "sessions"
	if sessions == 1 {
		noun = "session"
	}
	parts := []string{
		class,
		fmt.Sprintf("%d %s", sessions, noun),
		"span " + orEmpty(day.TotalHours),
	}
	if ot := orEmpty(day.Overtime); ot != "0h 0m" && ot != "--" {
		parts = append(parts, "overtime "+ot)
	}
	return strings.Join(parts, ", ")
}
