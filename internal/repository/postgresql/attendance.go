package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
	tx database.Transactor
}

const attendanceColumns = `
	id, employee_id, to_char(work_date, 'YYYY-MM-DD'),
	check_ins, check_outs, check_in, check_out,
	status, total_hours, overtime, created_at, updated_at
`

// scanDay reads one attendance_days row selected with attendanceColumns.
func scanDay(row pgx.Row) (attendance.AttendanceDay, error) {
	var (
		day                 attendance.AttendanceDay
		checkIns, checkOuts []byte
		legacyIn, legacyOut []byte
		status              string
	)
	err := row.Scan(
		&day.ID, &day.EmployeeID, &day.WorkDate,
		&checkIns, &checkOuts, &legacyIn, &legacyOut,
		&status, &day.TotalHours, &day.Overtime, &day.CreatedAt, &day.UpdatedAt,
	)
	if err != nil {
		return attendance.AttendanceDay{}, err
	}
	day.Status = attendance.DayStatus(status)

	if err := unmarshalEvents(checkIns, &day.CheckIns); err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("decode check_ins: %w", err)
	}
	if err := unmarshalEvents(checkOuts, &day.CheckOuts); err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("decode check_outs: %w", err)
	}
	if day.Legacy.CheckIn, err = unmarshalEvent(legacyIn); err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("decode check_in: %w", err)
	}
	if day.Legacy.CheckOut, err = unmarshalEvent(legacyOut); err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("decode check_out: %w", err)
	}
	day.AdoptLegacy()
	return day, nil
}

func unmarshalEvents(raw []byte, dst *[]attendance.SessionEvent) error {
	if len(raw) == 0 {
		*dst = []attendance.SessionEvent{}
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func unmarshalEvent(raw []byte) (*attendance.SessionEvent, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var ev attendance.SessionEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func marshalEvent(ev *attendance.SessionEvent) ([]byte, error) {
	if ev == nil {
		return nil, nil
	}
	return json.Marshal(ev)
}

func scanDays(rows pgx.Rows) ([]attendance.AttendanceDay, error) {
	defer rows.Close()

	days := []attendance.AttendanceDay{}
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance days: %w", err)
	}
	return days, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate string) (*attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE employee_id = $1 AND work_date = $2::date
		LIMIT 1
	`

	day, err := scanDay(q.QueryRow(ctx, query, employeeID, workDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &day, nil
}

// ListByRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByRange(ctx context.Context, employeeID string, startDate, endDate string) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE employee_id = $1
		  AND work_date >= $2::date
		  AND work_date <= $3::date
		ORDER BY work_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance range: %w", err)
	}
	return scanDays(rows)
}

// ListHistory implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListHistory(ctx context.Context, employeeID string, limit, offset int) ([]attendance.AttendanceDay, int64, error) {
	q := GetQuerier(ctx, a.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_days WHERE employee_id = $1`, employeeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance days: %w", err)
	}

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE employee_id = $1
		ORDER BY work_date DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, employeeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance history: %w", err)
	}
	days, err := scanDays(rows)
	if err != nil {
		return nil, 0, err
	}
	return days, total, nil
}

// ListOpenSessions implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenSessions(ctx context.Context, workDate string) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE work_date = $1::date
		  AND jsonb_array_length(check_ins) > jsonb_array_length(check_outs)
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, workDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query open sessions: %w", err)
	}
	return scanDays(rows)
}

// Modify implements attendance.AttendanceRepository. The row is created if
// missing and locked with FOR UPDATE, so concurrent modifications of the same
// day are serialized. Returning an error from fn rolls back, including the
// creation of a new row.
func (a *attendanceRepository) Modify(ctx context.Context, employeeID string, workDate string, fn func(day *attendance.AttendanceDay) error) (attendance.AttendanceDay, error) {
	var result attendance.AttendanceDay

	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, a.db)

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate attendance id: %w", err)
		}

		_, err = q.Exec(txCtx, `
			INSERT INTO attendance_days (id, employee_id, work_date, status)
			VALUES ($1, $2, $3::date, $4)
			ON CONFLICT (employee_id, work_date) DO NOTHING
		`, id.String(), employeeID, workDate, string(attendance.StatusPresent))
		if err != nil {
			return fmt.Errorf("failed to create attendance day: %w", err)
		}

		day, err := scanDay(q.QueryRow(txCtx, `SELECT `+attendanceColumns+`
			FROM attendance_days
			WHERE employee_id = $1 AND work_date = $2::date
			FOR UPDATE
		`, employeeID, workDate))
		if err != nil {
			return fmt.Errorf("failed to lock attendance day: %w", err)
		}

		if err := fn(&day); err != nil {
			return err
		}

		checkIns, err := json.Marshal(day.CheckIns)
		if err != nil {
			return fmt.Errorf("encode check_ins: %w", err)
		}
		checkOuts, err := json.Marshal(day.CheckOuts)
		if err != nil {
			return fmt.Errorf("encode check_outs: %w", err)
		}
		legacyIn, err := marshalEvent(day.FirstCheckIn())
		if err != nil {
			return fmt.Errorf("encode check_in: %w", err)
		}
		legacyOut, err := marshalEvent(day.LastCheckOut())
		if err != nil {
			return fmt.Errorf("encode check_out: %w", err)
		}

		err = q.QueryRow(txCtx, `
			UPDATE attendance_days
			SET check_ins = $2, check_outs = $3, check_in = $4, check_out = $5,
			    status = $6, total_hours = $7, overtime = $8, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at
		`, day.ID, checkIns, checkOuts, legacyIn, legacyOut,
			string(day.Status), day.TotalHours, day.Overtime,
		).Scan(&day.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update attendance day: %w", err)
		}

		result = day
		return nil
	})
	if err != nil {
		return attendance.AttendanceDay{}, err
	}
	return result, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{
		db: db,
		tx: NewTransactor(db),
	}
}
