package attendance

import (
	"context"
)

// AttendanceRepository persists one AttendanceDay per (employeeID, workDate).
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil, nil when no day exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate string) (*AttendanceDay, error)

	// ListByRange returns days with startDate <= workDate <= endDate, ascending.
	ListByRange(ctx context.Context, employeeID string, startDate, endDate string) ([]AttendanceDay, error)

	// ListHistory returns days newest first plus the total count.
	ListHistory(ctx context.Context, employeeID string, limit, offset int) ([]AttendanceDay, int64, error)

	// Modify loads or creates the day and runs fn under an exclusive lock on
	// it. The day is persisted only when fn returns nil.
	Modify(ctx context.Context, employeeID string, workDate string, fn func(day *AttendanceDay) error) (AttendanceDay, error)

	// ListOpenSessions returns days on workDate whose last check-in has no
	// check-out.
	ListOpenSessions(ctx context.Context, workDate string) ([]AttendanceDay, error)
}
