package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// LEDGER DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID   string  `json:"-"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Address      string  `json:"address"`
	DepartmentID *string `json:"department_id,omitempty"`
	Image        []byte  `json:"-"`
	Filename     string  `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	return validateCapture(r.EmployeeID, r.Latitude, r.Longitude, r.Image, r.Filename)
}

type CheckOutRequest struct {
	EmployeeID string  `json:"-"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Address    string  `json:"address"`
	Image      []byte  `json:"-"`
	Filename   string  `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	return validateCapture(r.EmployeeID, r.Latitude, r.Longitude, r.Image, r.Filename)
}

func validateCapture(employeeID string, lat, lng float64, image []byte, filename string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if lat < -90 || lat > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if lng < -180 || lng > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(image) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "attendance proof photo is required",
		})
	} else if !validator.IsImageFilename(filename) {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "invalid file type: only jpg, jpeg, png allowed",
		})
	} else if len(image) > 10<<20 { // 10MB
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "attendance proof photo size must not exceed 10MB",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetDayStatusRequest struct {
	EmployeeID string    `json:"employee_id"`
	WorkDate   string    `json:"work_date"`
	Status     DayStatus `json:"status"`
}

func (r *SetDayStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.WorkDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "work_date",
			Message: "work_date must be in YYYY-MM-DD format",
		})
	}
	r.Status = DayStatus(strings.ToUpper(string(r.Status)))
	if !r.Status.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of PRESENT, ON_LEAVE, ABSENT",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SessionEventResponse struct {
	Time         time.Time `json:"time"`
	ImageURL     string    `json:"image_url"`
	Location     Location  `json:"location"`
	DepartmentID *string   `json:"department_id,omitempty"`
	HourlyRate   *string   `json:"hourly_rate,omitempty"`
}

// AttendanceDayResponse carries both the event arrays and the legacy
// single-session fields for older clients.
type AttendanceDayResponse struct {
	ID          string                 `json:"id"`
	EmployeeID  string                 `json:"employee_id"`
	Date        string                 `json:"date"`
	CheckIns    []SessionEventResponse `json:"check_ins"`
	CheckOuts   []SessionEventResponse `json:"check_outs"`
	CheckIn     *SessionEventResponse  `json:"check_in,omitempty"`
	CheckOut    *SessionEventResponse  `json:"check_out,omitempty"`
	Status      DayStatus              `json:"status"`
	TotalHours  string                 `json:"total_hours"`
	Overtime    string                 `json:"overtime"`
	IsCheckedIn bool                   `json:"is_checked_in"`
}

// ========================================
// AGGREGATION DTOs
// ========================================

type TodayStatusResponse struct {
	Date         string    `json:"date"`
	Status       DayStatus `json:"status"`
	CheckInTime  string    `json:"check_in_time"`
	CheckOutTime string    `json:"check_out_time"`
	TotalHours   string    `json:"total_hours"`
	Overtime     string    `json:"overtime"`
	IsCheckedIn  bool      `json:"is_checked_in"`
	SessionCount int       `json:"session_count"`
}

type SummaryResponse struct {
	Period      string  `json:"period"` // week, month
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TotalHours  string  `json:"total_hours"`
	Overtime    string  `json:"overtime"`
	WorkDays    string  `json:"work_days"` // "worked / total"
	WorkedDays  int     `json:"worked_days"`
	TotalDays   int     `json:"total_days"`
	LateDays    int     `json:"late_days"`
	LeaveDays   int     `json:"leave_days"`
	AbsentDays  int     `json:"absent_days"`
	Performance float64 `json:"performance"`
}

const (
	SessionCompleted  = "Completed"
	SessionInProgress = "In Progress"

	// DurationInProgress is the duration text of an open session.
	DurationInProgress = "In progress"
)

type SessionDetail struct {
	Session          int        `json:"session"`
	CheckInTime      time.Time  `json:"check_in_time"`
	CheckOutTime     *time.Time `json:"check_out_time,omitempty"`
	CheckInLocation  Location   `json:"check_in_location"`
	CheckOutLocation *Location  `json:"check_out_location,omitempty"`
	CheckInImage     string     `json:"check_in_image"`
	CheckOutImage    *string    `json:"check_out_image,omitempty"`
	DepartmentID     *string    `json:"department_id,omitempty"`
	Duration         string     `json:"duration"`
	Status           string     `json:"status"`
}

type DailyDetailResponse struct {
	Date       string          `json:"date"`
	Status     DayStatus       `json:"status"`
	TotalHours string          `json:"total_hours"`
	Overtime   string          `json:"overtime"`
	Sessions   []SessionDetail `json:"sessions"`
}

// Day classifications used by the monthly calendar.
const (
	ClassOnTime   = "On Time"
	ClassLate     = "Late"
	ClassOnLeave  = "On Leave"
	ClassAbsent   = "Absent"
	ClassWeekend  = "Weekend"
	ClassNoRecord = "No Record"
)

type CalendarDay struct {
	Date           string          `json:"date"`
	Weekday        string          `json:"weekday"`
	Classification string          `json:"classification"`
	Status         *DayStatus      `json:"status,omitempty"`
	TotalHours     string          `json:"total_hours"`
	Overtime       string          `json:"overtime"`
	Sessions       []SessionDetail `json:"sessions"`
}

type MonthlyCalendarResponse struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}

// ========================================
// HISTORY DTOs
// ========================================

type HistoryFilter struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HistoryEntry struct {
	Date       string    `json:"date"`
	Weekday    string    `json:"weekday"`
	Status     DayStatus `json:"status"`
	TotalHours string    `json:"total_hours"`
	Overtime   string    `json:"overtime"`
	Sessions   []string  `json:"sessions"`
	Summary    string    `json:"summary"`
}

type HistoryResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Entries    []HistoryEntry `json:"entries"`
}
