package department

import (
	"context"
	"time"
)

// RateRepository stores one DepartmentRate per (employeeID, departmentID).
// The single-default rule is enforced by the service, not by storage.
type RateRepository interface {
	// GetEffective returns the active rate for the department at t, or nil.
	GetEffective(ctx context.Context, employeeID, departmentID string, at time.Time) (*DepartmentRate, error)

	// GetDefault returns the employee's active default rate at t, or nil.
	GetDefault(ctx context.Context, employeeID string, at time.Time) (*DepartmentRate, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]DepartmentRate, error)

	// ClearDefault unsets is_default on the employee's other active rates.
	ClearDefault(ctx context.Context, employeeID, exceptDepartmentID string) error

	// Upsert inserts or replaces the rate keyed by (employeeID, departmentID).
	Upsert(ctx context.Context, rate DepartmentRate) (DepartmentRate, error)

	// Deactivate closes the effective window at t. Returns ErrRateNotFound
	// when no active rate exists.
	Deactivate(ctx context.Context, employeeID, departmentID string, at time.Time) error
}
