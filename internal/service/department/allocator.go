package department

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/department"
	"github.com/shopspring/decimal"
)

// UnassignedDepartment buckets sessions whose check-in carries no department.
const UnassignedDepartment = "unassigned"

var secondsPerHour = decimal.NewFromInt(3600)

// Allocation is the salary breakdown of one day.
type Allocation struct {
	Departments []department.DepartmentSalary
	TotalHours  decimal.Decimal
	TotalSalary decimal.Decimal
}

// AllocateDaySalary pairs sessions the same way the daily detail does and
// charges each completed session at its check-in's hourly rate. Hours are
// rounded to 2 decimals and salary to whole units once per bucket. Open
// sessions and check-ins without a rate earn nothing.
func AllocateDaySalary(checkIns, checkOuts []attendance.SessionEvent) Allocation {
	type bucket struct {
		sessions int
		hours    decimal.Decimal
		salary   decimal.Decimal
	}

	var (
		order   []string
		buckets = make(map[string]*bucket)
		hours   = decimal.Zero
		salary  = decimal.Zero
	)

	for _, session := range attendance.PairSessions(checkIns, checkOuts) {
		if session.CheckOut == nil {
			continue
		}

		key := UnassignedDepartment
		if id := session.CheckIn.DepartmentID; id != nil && *id != "" {
			key = *id
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{hours: decimal.Zero, salary: decimal.Zero}
			buckets[key] = b
			order = append(order, key)
		}

		worked := sessionHours(session.CheckIn.Time, session.CheckOut.Time)
		earned := decimal.Zero
		if rate := session.CheckIn.HourlyRate; rate != nil {
			earned = worked.Mul(*rate)
		}

		b.sessions++
		b.hours = b.hours.Add(worked)
		b.salary = b.salary.Add(earned)
		hours = hours.Add(worked)
		salary = salary.Add(earned)
	}

	departments := make([]department.DepartmentSalary, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		departments = append(departments, department.DepartmentSalary{
			DepartmentID: key,
			Sessions:     b.sessions,
			Hours:        b.hours.Round(2),
			Salary:       b.salary.Round(0),
		})
	}

	return Allocation{
		Departments: departments,
		TotalHours:  hours.Round(2),
		TotalSalary: salary.Round(0),
	}
}

// sessionHours is the exact elapsed hours, zero when out precedes in.
func sessionHours(in, out time.Time) decimal.Decimal {
	elapsed := out.Sub(in)
	if elapsed <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(elapsed / time.Second)).Div(secondsPerHour)
}
