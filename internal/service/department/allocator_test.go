package department

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(hour, minute int) time.Time {
	return time.Date(2026, 10, 14, hour, minute, 0, 0, time.UTC)
}

func tagged(t time.Time, departmentID string, rate int64) attendance.SessionEvent {
	r := decimal.NewFromInt(rate)
	ev := attendance.SessionEvent{Time: t, HourlyRate: &r}
	if departmentID != "" {
		ev.DepartmentID = &departmentID
	}
	return ev
}

func plain(t time.Time) attendance.SessionEvent {
	return attendance.SessionEvent{Time: t}
}

func TestAllocateDaySalary_BucketsByDepartment(t *testing.T) {
	ins := []attendance.SessionEvent{
		tagged(clock(8, 0), "kitchen", 100),
		tagged(clock(13, 0), "bar", 120),
		tagged(clock(17, 0), "kitchen", 100),
	}
	outs := []attendance.SessionEvent{
		plain(clock(12, 0)),
		plain(clock(15, 30)),
		plain(clock(18, 20)),
	}

	alloc := AllocateDaySalary(ins, outs)
	require.Len(t, alloc.Departments, 2)

	kitchen := alloc.Departments[0]
	assert.Equal(t, "kitchen", kitchen.DepartmentID)
	assert.Equal(t, 2, kitchen.Sessions)
	assert.Equal(t, "5.33", kitchen.Hours.StringFixed(2))
	assert.Equal(t, "533", kitchen.Salary.String())

	bar := alloc.Departments[1]
	assert.Equal(t, "bar", bar.DepartmentID)
	assert.Equal(t, 1, bar.Sessions)
	assert.Equal(t, "2.50", bar.Hours.StringFixed(2))
	assert.Equal(t, "300", bar.Salary.String())

	assert.Equal(t, "7.83", alloc.TotalHours.StringFixed(2))
	assert.Equal(t, "833", alloc.TotalSalary.String())
}

func TestAllocateDaySalary_OpenAndUnassignedSessions(t *testing.T) {
	ins := []attendance.SessionEvent{
		tagged(clock(9, 0), "", 90),
		tagged(clock(14, 0), "kitchen", 100),
	}
	outs := []attendance.SessionEvent{
		plain(clock(11, 0)),
	}

	alloc := AllocateDaySalary(ins, outs)
	require.Len(t, alloc.Departments, 1)
	assert.Equal(t, UnassignedDepartment, alloc.Departments[0].DepartmentID)
	assert.Equal(t, "180", alloc.Departments[0].Salary.String())
	assert.Equal(t, "2", alloc.TotalHours.String())
}

func TestAllocateDaySalary_PositionalPairing(t *testing.T) {
	// Out-of-order reports: sorted positional pairing gives 8-10 and 11-12.
	ins := []attendance.SessionEvent{
		tagged(clock(11, 0), "kitchen", 60),
		tagged(clock(8, 0), "kitchen", 60),
	}
	outs := []attendance.SessionEvent{
		plain(clock(12, 0)),
		plain(clock(10, 0)),
	}

	alloc := AllocateDaySalary(ins, outs)
	assert.Equal(t, "3", alloc.TotalHours.String())
	assert.Equal(t, "180", alloc.TotalSalary.String())
}

func TestAllocateDaySalary_CheckOutBeforeCheckInEarnsNothing(t *testing.T) {
	ins := []attendance.SessionEvent{tagged(clock(10, 0), "kitchen", 100)}
	outs := []attendance.SessionEvent{plain(clock(9, 0))}

	alloc := AllocateDaySalary(ins, outs)
	require.Len(t, alloc.Departments, 1)
	assert.True(t, alloc.Departments[0].Hours.IsZero())
	assert.True(t, alloc.TotalSalary.IsZero())
}

func TestAllocateDaySalary_MissingRateEarnsNothing(t *testing.T) {
	ins := []attendance.SessionEvent{plain(clock(8, 0))}
	outs := []attendance.SessionEvent{plain(clock(16, 0))}

	alloc := AllocateDaySalary(ins, outs)
	assert.Equal(t, "8", alloc.TotalHours.String())
	assert.True(t, alloc.TotalSalary.IsZero())
}

func TestAllocateDaySalary_Empty(t *testing.T) {
	alloc := AllocateDaySalary(nil, nil)
	assert.Empty(t, alloc.Departments)
	assert.True(t, alloc.TotalHours.IsZero())
	assert.True(t, alloc.TotalSalary.IsZero())
}
