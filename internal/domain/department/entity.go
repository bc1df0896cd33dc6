package department

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepartmentRate is the hourly rate paid to an employee for work attributed
// to a department. Rates are never hard-deleted; deactivation closes the
// effective window.
type DepartmentRate struct {
	ID            string
	EmployeeID    string
	DepartmentID  string
	HourlyRate    decimal.Decimal
	IsDefault     bool
	IsActive      bool
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	DepartmentName *string
}

// EffectiveAt reports whether the rate applies at t.
func (r DepartmentRate) EffectiveAt(t time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.EffectiveFrom.After(t) {
		return false
	}
	return r.EffectiveTo == nil || r.EffectiveTo.After(t)
}

type RateSource string

const (
	SourceDepartment   RateSource = "department"
	SourceDefault      RateSource = "default"
	SourceOrganization RateSource = "organization"
)

// ResolvedRate is the outcome of the three-tier rate lookup.
type ResolvedRate struct {
	DepartmentID *string
	HourlyRate   decimal.Decimal
	Source       RateSource
}
