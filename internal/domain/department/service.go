package department

import (
	"context"
)

// DepartmentService resolves hourly rates and allocates worked time to
// departments.
type DepartmentService interface {
	// ResolveRate tries the department rate, then the default rate, then the
	// organization fallback.
	ResolveRate(ctx context.Context, employeeID string, departmentID *string) (ResolvedRate, error)

	SetRate(ctx context.Context, req SetRateRequest) (RateResponse, error)
	DeactivateRate(ctx context.Context, employeeID, departmentID string) error
	ListRates(ctx context.Context, employeeID string) ([]RateResponse, error)

	// DaySalary allocates one day of sessions to departments.
	DaySalary(ctx context.Context, employeeID, workDate string) (DaySalaryResponse, error)
}
