package department

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SetRateRequest struct {
	EmployeeID   string          `json:"employee_id"`
	DepartmentID string          `json:"department_id"`
	HourlyRate   decimal.Decimal `json:"hourly_rate"`
	IsDefault    bool            `json:"is_default"`
}

func (r *SetRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if validator.IsEmpty(r.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department_id",
			Message: "department_id is required",
		})
	}
	if r.HourlyRate.IsNegative() || r.HourlyRate.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "hourly_rate",
			Message: "hourly_rate must be greater than 0",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RateResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	DepartmentID   string          `json:"department_id"`
	DepartmentName *string         `json:"department_name,omitempty"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	IsDefault      bool            `json:"is_default"`
	IsActive       bool            `json:"is_active"`
	EffectiveFrom  string          `json:"effective_from"`
	EffectiveTo    *string         `json:"effective_to,omitempty"`
}

type DepartmentSalary struct {
	DepartmentID string          `json:"department_id"`
	Sessions     int             `json:"sessions"`
	Hours        decimal.Decimal `json:"hours"`
	Salary       decimal.Decimal `json:"salary"`
}

type DaySalaryResponse struct {
	Date        string             `json:"date"`
	Departments []DepartmentSalary `json:"departments"`
	TotalHours  decimal.Decimal    `json:"total_hours"`
	TotalSalary decimal.Decimal    `json:"total_salary"`
}
