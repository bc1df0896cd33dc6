package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type rateRepository struct {
	db *database.DB
}

const rateColumns = `
	r.id, r.employee_id, r.department_id, r.hourly_rate, r.is_default, r.is_active,
	r.effective_from, r.effective_to, r.created_at, r.updated_at, d.name
`

func scanRate(row pgx.Row) (department.DepartmentRate, error) {
	var rate department.DepartmentRate
	err := row.Scan(
		&rate.ID, &rate.EmployeeID, &rate.DepartmentID, &rate.HourlyRate, &rate.IsDefault, &rate.IsActive,
		&rate.EffectiveFrom, &rate.EffectiveTo, &rate.CreatedAt, &rate.UpdatedAt, &rate.DepartmentName,
	)
	return rate, err
}

// GetEffective implements department.RateRepository.
func (r *rateRepository) GetEffective(ctx context.Context, employeeID, departmentID string, at time.Time) (*department.DepartmentRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rateColumns + `
		FROM department_rates r
		LEFT JOIN departments d ON d.id = r.department_id
		WHERE r.employee_id = $1
		  AND r.department_id = $2
		  AND r.is_active = TRUE
		  AND r.effective_from <= $3
		  AND (r.effective_to IS NULL OR r.effective_to > $3)
		LIMIT 1
	`

	rate, err := scanRate(q.QueryRow(ctx, query, employeeID, departmentID, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get department rate: %w", err)
	}
	return &rate, nil
}

// GetDefault implements department.RateRepository.
func (r *rateRepository) GetDefault(ctx context.Context, employeeID string, at time.Time) (*department.DepartmentRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rateColumns + `
		FROM department_rates r
		LEFT JOIN departments d ON d.id = r.department_id
		WHERE r.employee_id = $1
		  AND r.is_default = TRUE
		  AND r.is_active = TRUE
		  AND r.effective_from <= $2
		  AND (r.effective_to IS NULL OR r.effective_to > $2)
		ORDER BY r.updated_at DESC
		LIMIT 1
	`

	rate, err := scanRate(q.QueryRow(ctx, query, employeeID, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default rate: %w", err)
	}
	return &rate, nil
}

// ListByEmployee implements department.RateRepository.
func (r *rateRepository) ListByEmployee(ctx context.Context, employeeID string) ([]department.DepartmentRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rateColumns + `
		FROM department_rates r
		LEFT JOIN departments d ON d.id = r.department_id
		WHERE r.employee_id = $1
		ORDER BY r.is_active DESC, r.is_default DESC, d.name ASC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query department rates: %w", err)
	}
	defer rows.Close()

	rates := []department.DepartmentRate{}
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department rate: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

// ClearDefault implements department.RateRepository.
func (r *rateRepository) ClearDefault(ctx context.Context, employeeID, exceptDepartmentID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE department_rates
		SET is_default = FALSE, updated_at = NOW()
		WHERE employee_id = $1
		  AND department_id <> $2
		  AND is_active = TRUE
		  AND is_default = TRUE
	`, employeeID, exceptDepartmentID)
	if err != nil {
		return fmt.Errorf("failed to clear default rates: %w", err)
	}
	return nil
}

// Upsert implements department.RateRepository.
func (r *rateRepository) Upsert(ctx context.Context, rate department.DepartmentRate) (department.DepartmentRate, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return department.DepartmentRate{}, fmt.Errorf("failed to generate rate id: %w", err)
	}

	err = q.QueryRow(ctx, `
		INSERT INTO department_rates (
			id, employee_id, department_id, hourly_rate, is_default, is_active, effective_from, effective_to
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, department_id) DO UPDATE SET
			hourly_rate = EXCLUDED.hourly_rate,
			is_default = EXCLUDED.is_default,
			is_active = EXCLUDED.is_active,
			effective_from = EXCLUDED.effective_from,
			effective_to = EXCLUDED.effective_to,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, id.String(), rate.EmployeeID, rate.DepartmentID, rate.HourlyRate, rate.IsDefault, rate.IsActive,
		rate.EffectiveFrom, rate.EffectiveTo,
	).Scan(&rate.ID, &rate.CreatedAt, &rate.UpdatedAt)
	if err != nil {
		return department.DepartmentRate{}, fmt.Errorf("failed to upsert department rate: %w", err)
	}
	return rate, nil
}

// Deactivate implements department.RateRepository.
func (r *rateRepository) Deactivate(ctx context.Context, employeeID, departmentID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE department_rates
		SET is_active = FALSE, is_default = FALSE, effective_to = $3, updated_at = NOW()
		WHERE employee_id = $1 AND department_id = $2 AND is_active = TRUE
	`, employeeID, departmentID, at)
	if err != nil {
		return fmt.Errorf("failed to deactivate department rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrRateNotFound
	}
	return nil
}

func NewRateRepository(db *database.DB) department.RateRepository {
	return &rateRepository{db: db}
}
