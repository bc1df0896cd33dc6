package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/duration"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDay stores a closed single-session day with the cached span filled in
// the way the ledger does.
func seedDay(repo *fakeAttendanceRepo, date string, in, out time.Time) {
	repo.put(attendance.AttendanceDay{
		EmployeeID: testEmployeeID,
		WorkDate:   date,
		CheckIns:   []attendance.SessionEvent{event(in)},
		CheckOuts:  []attendance.SessionEvent{event(out)},
		Status:     attendance.StatusPresent,
		TotalHours: duration.Between(&in, &out),
		Overtime:   duration.Overtime(&in, &out, 8),
	})
}

func seedStatus(repo *fakeAttendanceRepo, date string, status attendance.DayStatus) {
	repo.put(attendance.AttendanceDay{
		EmployeeID: testEmployeeID,
		WorkDate:   date,
		Status:     status,
		TotalHours: "--",
		Overtime:   "--",
	})
}

func TestTodayStatus_NoRecord(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.TodayStatus(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-15", resp.Date)
	assert.Equal(t, "--", resp.CheckInTime)
	assert.Equal(t, "--", resp.CheckOutTime)
	assert.Equal(t, "--", resp.TotalHours)
	assert.Equal(t, "--", resp.Overtime)
	assert.False(t, resp.IsCheckedIn)
	assert.Zero(t, resp.SessionCount)
}

func TestTodayStatus_OpenSessionIsLive(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()

	deps.clock.Set(at(2026, 10, 15, 9, 0))
	_, err := svc.CheckIn(ctx, checkInReq(testEmployeeID))
	require.NoError(t, err)

	deps.clock.Set(at(2026, 10, 15, 18, 15))
	resp, err := svc.TodayStatus(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.True(t, resp.IsCheckedIn)
	assert.Equal(t, "09:00", resp.CheckInTime)
	assert.Equal(t, "--", resp.CheckOutTime)
	assert.Equal(t, "9h 15m", resp.TotalHours)
	assert.Equal(t, "1h 15m", resp.Overtime)
	assert.Equal(t, 1, resp.SessionCount)
}

func TestTodayStatus_ClosedDayUsesCachedValues(t *testing.T) {
	svc, deps := newTestService(t)

	seedDay(deps.repo, "2026-10-15", at(2026, 10, 15, 8, 0), at(2026, 10, 15, 12, 45))
	deps.clock.Set(at(2026, 10, 15, 20, 0))

	resp, err := svc.TodayStatus(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.False(t, resp.IsCheckedIn)
	assert.Equal(t, "08:00", resp.CheckInTime)
	assert.Equal(t, "12:45", resp.CheckOutTime)
	assert.Equal(t, "4h 45m", resp.TotalHours)
	assert.Equal(t, "0h 0m", resp.Overtime)
}

func TestTodayStatus_LegacyFallback(t *testing.T) {
	svc, deps := newTestService(t)

	in := event(at(2026, 10, 15, 7, 30))
	out := event(at(2026, 10, 15, 15, 30))
	deps.repo.put(attendance.AttendanceDay{
		EmployeeID: testEmployeeID,
		WorkDate:   "2026-10-15",
		Legacy:     attendance.LegacyMirror{CheckIn: &in, CheckOut: &out},
		Status:     attendance.StatusPresent,
		TotalHours: "8h 0m",
		Overtime:   "0h 0m",
	})

	resp, err := svc.TodayStatus(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "07:30", resp.CheckInTime)
	assert.Equal(t, "15:30", resp.CheckOutTime)
	assert.Equal(t, "8h 0m", resp.TotalHours)
	assert.Equal(t, 1, resp.SessionCount)
}

func TestWeekSummary_FivePresentDays(t *testing.T) {
	svc, deps := newTestService(t)

	// Monday 12 Oct to Friday 16 Oct 2026, 8h each.
	for d := 12; d <= 16; d++ {
		seedDay(deps.repo, time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC).Format(attendance.DateLayout),
			at(2026, 10, d, 8, 55), at(2026, 10, d, 16, 55))
	}
	// Previous Sunday is outside the window.
	seedDay(deps.repo, "2026-10-11", at(2026, 10, 11, 9, 0), at(2026, 10, 11, 17, 0))

	resp, err := svc.WeekSummary(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "week", resp.Period)
	assert.Equal(t, "2026-10-12", resp.StartDate)
	assert.Equal(t, "2026-10-18", resp.EndDate)
	assert.Equal(t, "5 / 7", resp.WorkDays)
	assert.Equal(t, "40h 0m", resp.TotalHours)
	assert.Equal(t, "0h 0m", resp.Overtime)
	assert.Equal(t, 0.71, resp.Performance)
	assert.Equal(t, 7, resp.TotalDays)
	assert.Zero(t, resp.LateDays)
}

func TestWeekSummary_OnSunday(t *testing.T) {
	svc, deps := newTestService(t)
	deps.clock.Set(at(2026, 10, 18, 10, 0))

	resp, err := svc.WeekSummary(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-12", resp.StartDate)
	assert.Equal(t, "2026-10-18", resp.EndDate)
	assert.Equal(t, "0 / 7", resp.WorkDays)
	assert.Equal(t, "0h 0m", resp.TotalHours)
	assert.Zero(t, resp.Performance)
}

func TestWeekSummary_LateThresholdIsStrict(t *testing.T) {
	svc, deps := newTestService(t)

	seedDay(deps.repo, "2026-10-12", at(2026, 10, 12, 9, 5), at(2026, 10, 12, 17, 5))
	seedDay(deps.repo, "2026-10-13", at(2026, 10, 13, 9, 6), at(2026, 10, 13, 17, 6))

	resp, err := svc.WeekSummary(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.WorkedDays)
	assert.Equal(t, 1, resp.LateDays)
}

func TestMonthSummary(t *testing.T) {
	svc, deps := newTestService(t)

	seedDay(deps.repo, "2026-10-01", at(2026, 10, 1, 8, 0), at(2026, 10, 1, 18, 0))
	seedDay(deps.repo, "2026-10-02", at(2026, 10, 2, 9, 30), at(2026, 10, 2, 17, 30))
	seedStatus(deps.repo, "2026-10-20", attendance.StatusOnLeave)
	seedStatus(deps.repo, "2026-10-21", attendance.StatusAbsent)
	seedDay(deps.repo, "2026-09-30", at(2026, 9, 30, 8, 0), at(2026, 9, 30, 16, 0))

	resp, err := svc.MonthSummary(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "month", resp.Period)
	assert.Equal(t, "2026-10-01", resp.StartDate)
	assert.Equal(t, "2026-10-31", resp.EndDate)
	assert.Equal(t, 31, resp.TotalDays)
	assert.Equal(t, "2 / 31", resp.WorkDays)
	assert.Equal(t, "18h 0m", resp.TotalHours)
	assert.Equal(t, "2h 0m", resp.Overtime)
	assert.Equal(t, 1, resp.LateDays)
	assert.Equal(t, 1, resp.LeaveDays)
	assert.Equal(t, 1, resp.AbsentDays)
	assert.Equal(t, 0.06, resp.Performance)
}

func TestDailyDetail_PairsSortedEventsByPosition(t *testing.T) {
	svc, deps := newTestService(t)

	// Stored in acceptance order, not time order.
	deps.repo.put(attendance.AttendanceDay{
		EmployeeID: testEmployeeID,
		WorkDate:   "2026-10-14",
		CheckIns: []attendance.SessionEvent{
			event(at(2026, 10, 14, 13, 0)),
			event(at(2026, 10, 14, 9, 0)),
			event(at(2026, 10, 14, 15, 0)),
			event(at(2026, 10, 14, 17, 0)),
		},
		CheckOuts: []attendance.SessionEvent{
			event(at(2026, 10, 14, 14, 0)),
			event(at(2026, 10, 14, 12, 0)),
			event(at(2026, 10, 14, 16, 30)),
		},
		Status:     attendance.StatusPresent,
		TotalHours: "3h 30m",
		Overtime:   "0h 0m",
	})

	resp, err := svc.DailyDetail(context.Background(), testEmployeeID, "2026-10-14")
	require.NoError(t, err)
	require.Len(t, resp.Sessions, 4)

	want := []struct {
		duration string
		status   string
	}{
		{"3h 0m", attendance.SessionCompleted},
		{"1h 0m", attendance.SessionCompleted},
		{"1h 30m", attendance.SessionCompleted},
		{attendance.DurationInProgress, attendance.SessionInProgress},
	}
	for i, w := range want {
		s := resp.Sessions[i]
		assert.Equal(t, i+1, s.Session)
		assert.Equal(t, w.duration, s.Duration, "session %d", i+1)
		assert.Equal(t, w.status, s.Status, "session %d", i+1)
	}
	assert.True(t, resp.Sessions[0].CheckInTime.Equal(at(2026, 10, 14, 9, 0)))
	assert.Nil(t, resp.Sessions[3].CheckOutTime)
	assert.Nil(t, resp.Sessions[3].CheckOutImage)
	assert.Equal(t, "In progress", resp.Sessions[3].Duration)
}

func TestDailyDetail_Errors(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.DailyDetail(context.Background(), testEmployeeID, "2026-10-01")
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	_, err = svc.DailyDetail(context.Background(), testEmployeeID, "01-10-2026")
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestMonthlyCalendar_Classification(t *testing.T) {
	svc, deps := newTestService(t)

	seedStatus(deps.repo, "2026-10-02", attendance.StatusPresent)
	seedDay(deps.repo, "2026-10-10", at(2026, 10, 10, 8, 0), at(2026, 10, 10, 12, 0))
	seedDay(deps.repo, "2026-10-12", at(2026, 10, 12, 8, 0), at(2026, 10, 12, 16, 0))
	seedDay(deps.repo, "2026-10-13", at(2026, 10, 13, 9, 30), at(2026, 10, 13, 17, 30))
	seedStatus(deps.repo, "2026-10-14", attendance.StatusOnLeave)
	seedStatus(deps.repo, "2026-10-15", attendance.StatusAbsent)

	resp, err := svc.MonthlyCalendar(context.Background(), testEmployeeID, 2026, 10)
	require.NoError(t, err)
	require.Len(t, resp.Days, 31)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 10, resp.Month)

	byDate := map[string]attendance.CalendarDay{}
	for _, d := range resp.Days {
		byDate[d.Date] = d
	}

	cases := map[string]string{
		"2026-10-01": attendance.ClassNoRecord, // Thursday
		"2026-10-02": attendance.ClassAbsent,
		"2026-10-03": attendance.ClassWeekend,
		"2026-10-04": attendance.ClassWeekend,
		"2026-10-05": attendance.ClassNoRecord,
		"2026-10-10": attendance.ClassOnTime, // worked Saturday
		"2026-10-12": attendance.ClassOnTime,
		"2026-10-13": attendance.ClassLate,
		"2026-10-14": attendance.ClassOnLeave,
		"2026-10-15": attendance.ClassAbsent,
		"2026-10-31": attendance.ClassWeekend,
	}
	for date, want := range cases {
		assert.Equal(t, want, byDate[date].Classification, date)
	}

	assert.Equal(t, "Saturday", byDate["2026-10-03"].Weekday)
	assert.Nil(t, byDate["2026-10-05"].Status)
	assert.Empty(t, byDate["2026-10-05"].Sessions)
	assert.Equal(t, "--", byDate["2026-10-05"].TotalHours)

	require.Len(t, byDate["2026-10-12"].Sessions, 1)
	assert.Equal(t, "8h 0m", byDate["2026-10-12"].Sessions[0].Duration)
	require.NotNil(t, byDate["2026-10-14"].Status)
	assert.Equal(t, attendance.StatusOnLeave, *byDate["2026-10-14"].Status)
}

func TestMonthlyCalendar_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.MonthlyCalendar(context.Background(), testEmployeeID, 2026, 13)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "month")
}

func TestMonthlyCalendar_February(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.MonthlyCalendar(context.Background(), testEmployeeID, 2028, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Days, 29)
}

func TestClassify_CheckInOutranksStoredAbsence(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name   string
		status attendance.DayStatus
		in     *time.Time
		want   string
	}{
		{"absent without check-in", attendance.StatusAbsent, nil, attendance.ClassAbsent},
		{"absent with on-time check-in", attendance.StatusAbsent, ptrTime(at(2026, 10, 15, 8, 0)), attendance.ClassOnTime},
		{"absent with late check-in", attendance.StatusAbsent, ptrTime(at(2026, 10, 15, 9, 6)), attendance.ClassLate},
		{"present without check-in", attendance.StatusPresent, nil, attendance.ClassAbsent},
		{"leave with check-in", attendance.StatusOnLeave, ptrTime(at(2026, 10, 15, 8, 0)), attendance.ClassOnLeave},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := attendance.AttendanceDay{Status: tt.status}
			if tt.in != nil {
				day.CheckIns = []attendance.SessionEvent{event(*tt.in)}
			}
			assert.Equal(t, tt.want, svc.classify(day))
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
