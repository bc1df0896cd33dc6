package department

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type DepartmentServiceImpl struct {
	department.RateRepository
	attendance.AttendanceRepository
	employee.EmployeeRepository
	transactor   database.Transactor
	fallbackRate decimal.Decimal
	now          func() time.Time
}

func NewDepartmentService(
	rateRepo department.RateRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	transactor database.Transactor,
	fallbackRate decimal.Decimal,
) department.DepartmentService {
	return &DepartmentServiceImpl{
		RateRepository:       rateRepo,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		transactor:           transactor,
		fallbackRate:         fallbackRate,
		now:                  time.Now,
	}
}

// ResolveRate implements department.DepartmentService.
func (s *DepartmentServiceImpl) ResolveRate(ctx context.Context, employeeID string, departmentID *string) (department.ResolvedRate, error) {
	now := s.now()

	if departmentID != nil && *departmentID != "" {
		rate, err := s.RateRepository.GetEffective(ctx, employeeID, *departmentID, now)
		if err != nil {
			return department.ResolvedRate{}, fmt.Errorf("failed to get department rate: %w", err)
		}
		if rate != nil {
			return department.ResolvedRate{
				DepartmentID: &rate.DepartmentID,
				HourlyRate:   rate.HourlyRate,
				Source:       department.SourceDepartment,
			}, nil
		}
	}

	rate, err := s.RateRepository.GetDefault(ctx, employeeID, now)
	if err != nil {
		return department.ResolvedRate{}, fmt.Errorf("failed to get default rate: %w", err)
	}
	if rate != nil {
		return department.ResolvedRate{
			DepartmentID: &rate.DepartmentID,
			HourlyRate:   rate.HourlyRate,
			Source:       department.SourceDefault,
		}, nil
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return department.ResolvedRate{}, department.ErrRateNotFound
		}
		return department.ResolvedRate{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if emp.OrganizationID == nil || *emp.OrganizationID == "" {
		return department.ResolvedRate{}, department.ErrRateNotFound
	}

	var resolvedDepartment *string
	if departmentID != nil && *departmentID != "" {
		resolvedDepartment = departmentID
	}
	return department.ResolvedRate{
		DepartmentID: resolvedDepartment,
		HourlyRate:   s.fallbackRate,
		Source:       department.SourceOrganization,
	}, nil
}

// SetRate implements department.DepartmentService. Setting a default first
// clears the flag on the employee's other rates so at most one stays default.
func (s *DepartmentServiceImpl) SetRate(ctx context.Context, req department.SetRateRequest) (department.RateResponse, error) {
	if err := req.Validate(); err != nil {
		return department.RateResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return department.RateResponse{}, err
		}
		return department.RateResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	var saved department.DepartmentRate
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if req.IsDefault {
			if err := s.RateRepository.ClearDefault(txCtx, req.EmployeeID, req.DepartmentID); err != nil {
				return fmt.Errorf("failed to clear default rate: %w", err)
			}
		}

		rate, err := s.RateRepository.Upsert(txCtx, department.DepartmentRate{
			EmployeeID:    req.EmployeeID,
			DepartmentID:  req.DepartmentID,
			HourlyRate:    req.HourlyRate,
			IsDefault:     req.IsDefault,
			IsActive:      true,
			EffectiveFrom: s.now(),
		})
		if err != nil {
			return err
		}
		saved = rate
		return nil
	})
	if err != nil {
		return department.RateResponse{}, err
	}

	slog.Info("Department rate set",
		"employee_id", req.EmployeeID,
		"department_id", req.DepartmentID,
		"hourly_rate", req.HourlyRate.String(),
		"is_default", req.IsDefault,
	)
	return toRateResponse(saved), nil
}

// DeactivateRate implements department.DepartmentService.
func (s *DepartmentServiceImpl) DeactivateRate(ctx context.Context, employeeID, departmentID string) error {
	if validator.IsEmpty(departmentID) {
		return department.ErrDepartmentIDEmpty
	}
	if err := s.RateRepository.Deactivate(ctx, employeeID, departmentID, s.now()); err != nil {
		return err
	}

	slog.Info("Department rate deactivated", "employee_id", employeeID, "department_id", departmentID)
	return nil
}

// ListRates implements department.DepartmentService.
func (s *DepartmentServiceImpl) ListRates(ctx context.Context, employeeID string) ([]department.RateResponse, error) {
	rates, err := s.RateRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department rates: %w", err)
	}

	responses := make([]department.RateResponse, 0, len(rates))
	for _, rate := range rates {
		responses = append(responses, toRateResponse(rate))
	}
	return responses, nil
}

// DaySalary implements department.DepartmentService. Check-ins recorded
// without a rate are resolved now; a department that cannot be resolved
// fails the whole day.
func (s *DepartmentServiceImpl) DaySalary(ctx context.Context, employeeID, workDate string) (department.DaySalaryResponse, error) {
	if _, ok := validator.IsValidDate(workDate); !ok {
		return department.DaySalaryResponse{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	day, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, workDate)
	if err != nil {
		return department.DaySalaryResponse{}, fmt.Errorf("failed to load attendance day: %w", err)
	}
	if day == nil {
		return department.DaySalaryResponse{}, attendance.ErrRecordNotFound
	}

	day.AdoptLegacy()
	checkIns, checkOuts := day.CheckIns, day.CheckOuts

	filled, err := s.fillRates(ctx, employeeID, checkIns)
	if err != nil {
		return department.DaySalaryResponse{}, err
	}

	alloc := AllocateDaySalary(filled, checkOuts)
	return department.DaySalaryResponse{
		Date:        day.WorkDate,
		Departments: alloc.Departments,
		TotalHours:  alloc.TotalHours,
		TotalSalary: alloc.TotalSalary,
	}, nil
}

func (s *DepartmentServiceImpl) fillRates(ctx context.Context, employeeID string, checkIns []attendance.SessionEvent) ([]attendance.SessionEvent, error) {
	resolved := make(map[string]department.ResolvedRate)
	out := make([]attendance.SessionEvent, len(checkIns))

	for i, ev := range checkIns {
		out[i] = ev
		if ev.HourlyRate != nil {
			continue
		}

		key := ""
		if ev.DepartmentID != nil {
			key = *ev.DepartmentID
		}
		rate, ok := resolved[key]
		if !ok {
			var err error
			rate, err = s.ResolveRate(ctx, employeeID, ev.DepartmentID)
			if err != nil {
				return nil, err
			}
			resolved[key] = rate
		}

		hourly := rate.HourlyRate
		out[i].HourlyRate = &hourly
		if out[i].DepartmentID == nil {
			out[i].DepartmentID = rate.DepartmentID
		}
	}
	return out, nil
}

func toRateResponse(rate department.DepartmentRate) department.RateResponse {
	resp := department.RateResponse{
		ID:             rate.ID,
		EmployeeID:     rate.EmployeeID,
		DepartmentID:   rate.DepartmentID,
		DepartmentName: rate.DepartmentName,
		HourlyRate:     rate.HourlyRate,
		IsDefault:      rate.IsDefault,
		IsActive:       rate.IsActive,
		EffectiveFrom:  rate.EffectiveFrom.Format(time.RFC3339),
	}
	if rate.EffectiveTo != nil {
		to := rate.EffectiveTo.Format(time.RFC3339)
		resp.EffectiveTo = &to
	}
	return resp
}
