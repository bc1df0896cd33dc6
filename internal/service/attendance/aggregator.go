package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/duration"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const (
	periodWeek  = "week"
	periodMonth = "month"
)

// TodayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TodayStatus(ctx context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	now := s.now().In(s.loc)
	workDate := now.Format(attendance.DateLayout)

	resp := attendance.TodayStatusResponse{
		Date:         workDate,
		CheckInTime:  duration.Empty,
		CheckOutTime: duration.Empty,
		TotalHours:   duration.Empty,
		Overtime:     duration.Empty,
	}

	day, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, workDate)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if day == nil {
		return resp, nil
	}

	day.AdoptLegacy()
	resp.Status = day.Status
	resp.IsCheckedIn = day.HasOpenSession()
	resp.SessionCount = len(s.sessionsOf(*day))

	first := day.FirstCheckIn()
	if first != nil {
		resp.CheckInTime = first.Time.In(s.loc).Format("15:04")
	}
	if last := day.LastCheckOut(); last != nil {
		resp.CheckOutTime = last.Time.In(s.loc).Format("15:04")
	}

	if resp.IsCheckedIn && first != nil {
		resp.TotalHours = duration.Between(&first.Time, &now)
		resp.Overtime = duration.Overtime(&first.Time, &now, s.standardHours)
		return resp, nil
	}

	resp.TotalHours = orEmpty(day.TotalHours)
	resp.Overtime = orEmpty(day.Overtime)
	return resp, nil
}

// WeekSummary implements attendance.AttendanceService. Weeks run Monday to
// Sunday.
func (s *AttendanceServiceImpl) WeekSummary(ctx context.Context, employeeID string) (attendance.SummaryResponse, error) {
	now := s.now().In(s.loc)
	offset := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 6)

	return s.summarize(ctx, employeeID, periodWeek, start, end, 7)
}

// MonthSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MonthSummary(ctx context.Context, employeeID string) (attendance.SummaryResponse, error) {
	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 1, -1)

	return s.summarize(ctx, employeeID, periodMonth, start, end, end.Day())
}

func (s *AttendanceServiceImpl) summarize(ctx context.Context, employeeID, period string, start, end time.Time, totalDays int) (attendance.SummaryResponse, error) {
	startDate := start.Format(attendance.DateLayout)
	endDate := end.Format(attendance.DateLayout)

	days, err := s.AttendanceRepository.ListByRange(ctx, employeeID, startDate, endDate)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendance for %s: %w", period, err)
	}

	var totalMinutes, overtimeMinutes, worked, late, leave, absent int
	for _, day := range days {
		totalMinutes += duration.ParseMinutes(day.TotalHours)
		overtimeMinutes += duration.ParseMinutes(day.Overtime)

		switch s.classify(day) {
		case attendance.ClassOnTime:
			worked++
		case attendance.ClassLate:
			worked++
			late++
		case attendance.ClassOnLeave:
			leave++
		case attendance.ClassAbsent:
			absent++
		}
	}

	return attendance.SummaryResponse{
		Period:      period,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalHours:  duration.FormatMinutes(totalMinutes),
		Overtime:    duration.FormatMinutes(overtimeMinutes),
		WorkDays:    fmt.Sprintf("%d / %d", worked, totalDays),
		WorkedDays:  worked,
		TotalDays:   totalDays,
		LateDays:    late,
		LeaveDays:   leave,
		AbsentDays:  absent,
		Performance: math.Round(float64(worked)/float64(totalDays)*100) / 100,
	}, nil
}

// DailyDetail implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DailyDetail(ctx context.Context, employeeID string, workDate string) (attendance.DailyDetailResponse, error) {
	if _, ok := validator.IsValidDate(workDate); !ok {
		return attendance.DailyDetailResponse{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	day, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, workDate)
	if err != nil {
		return attendance.DailyDetailResponse{}, fmt.Errorf("failed to load attendance day: %w", err)
	}
	if day == nil {
		return attendance.DailyDetailResponse{}, attendance.ErrRecordNotFound
	}

	return attendance.DailyDetailResponse{
		Date:       day.WorkDate,
		Status:     day.Status,
		TotalHours: orEmpty(day.TotalHours),
		Overtime:   orEmpty(day.Overtime),
		Sessions:   s.expandSessions(*day),
	}, nil
}

// MonthlyCalendar implements attendance.AttendanceService. Calendar days are
// UTC dates so the grid does not shift with the server time zone.
func (s *AttendanceServiceImpl) MonthlyCalendar(ctx context.Context, employeeID string, year, month int) (attendance.MonthlyCalendarResponse, error) {
	var errs validator.ValidationErrors
	if year < 1970 || year > 9999 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 1970 and 9999"})
	}
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if len(errs) > 0 {
		return attendance.MonthlyCalendarResponse{}, errs
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	days, err := s.AttendanceRepository.ListByRange(ctx, employeeID, start.Format(attendance.DateLayout), end.Format(attendance.DateLayout))
	if err != nil {
		return attendance.MonthlyCalendarResponse{}, fmt.Errorf("failed to list attendance for calendar: %w", err)
	}

	byDate := make(map[string]attendance.AttendanceDay, len(days))
	for _, day := range days {
		byDate[day.WorkDate] = day
	}

	calendar := make([]attendance.CalendarDay, 0, end.Day())
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(attendance.DateLayout)
		entry := attendance.CalendarDay{
			Date:       date,
			Weekday:    d.Weekday().String(),
			TotalHours: duration.Empty,
			Overtime:   duration.Empty,
			Sessions:   []attendance.SessionDetail{},
		}

		day, ok := byDate[date]
		switch {
		case ok:
			status := day.Status
			entry.Classification = s.classify(day)
			entry.Status = &status
			entry.TotalHours = orEmpty(day.TotalHours)
			entry.Overtime = orEmpty(day.Overtime)
			entry.Sessions = s.expandSessions(day)
		case isWeekend(d):
			entry.Classification = attendance.ClassWeekend
		default:
			entry.Classification = attendance.ClassNoRecord
		}

		calendar = append(calendar, entry)
	}

	return attendance.MonthlyCalendarResponse{
		Year:  year,
		Month: month,
		Days:  calendar,
	}, nil
}

// classify derives the calendar class of a stored day. Leave wins over
// everything; otherwise a check-in makes the day On Time or Late whatever the
// stored status, and a day without one counts as absent.
func (s *AttendanceServiceImpl) classify(day attendance.AttendanceDay) string {
	if day.Status == attendance.StatusOnLeave {
		return attendance.ClassOnLeave
	}

	first := day.FirstCheckIn()
	if first == nil {
		return attendance.ClassAbsent
	}
	if s.isLate(first.Time) {
		return attendance.ClassLate
	}
	return attendance.ClassOnTime
}

// isLate reports whether t is strictly after the late threshold on its own
// local day.
func (s *AttendanceServiceImpl) isLate(t time.Time) bool {
	local := t.In(s.loc)
	threshold := time.Date(local.Year(), local.Month(), local.Day(), s.lateAfterHour, s.lateAfterMinute, 0, 0, s.loc)
	return local.After(threshold)
}

// sessionsOf pairs the day's events, falling back to the legacy fields for
// records written before the event arrays existed.
func (s *AttendanceServiceImpl) sessionsOf(day attendance.AttendanceDay) []attendance.Session {
	day.AdoptLegacy()
	return attendance.PairSessions(day.CheckIns, day.CheckOuts)
}

func (s *AttendanceServiceImpl) expandSessions(day attendance.AttendanceDay) []attendance.SessionDetail {
	sessions := s.sessionsOf(day)
	details := make([]attendance.SessionDetail, 0, len(sessions))

	for _, session := range sessions {
		detail := attendance.SessionDetail{
			Session:         session.Index,
			CheckInTime:     session.CheckIn.Time,
			CheckInLocation: session.CheckIn.Location,
			CheckInImage:    session.CheckIn.ImageURL,
			DepartmentID:    session.CheckIn.DepartmentID,
			Duration:        attendance.DurationInProgress,
			Status:          attendance.SessionInProgress,
		}

		if out := session.CheckOut; out != nil {
			outTime := out.Time
			outLocation := out.Location
			outImage := out.ImageURL

			detail.CheckOutTime = &outTime
			detail.CheckOutLocation = &outLocation
			detail.CheckOutImage = &outImage
			detail.Duration = duration.Between(&session.CheckIn.Time, &outTime)
			detail.Status = attendance.SessionCompleted
		}

		details = append(details, detail)
	}
	return details
}

func isWeekend(d time.Time) bool {
	return d.Weekday() == time.Saturday || d.Weekday() == time.Sunday
}

func orEmpty(s string) string {
	if s == "" {
		return duration.Empty
	}
	return s
}
