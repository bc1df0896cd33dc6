package attendance

import (
	"context"
)

// FaceVerifier compares a captured image with the enrolled reference.
type FaceVerifier interface {
	Verify(ctx context.Context, capturedImageURL, referenceImageURL string) (bool, error)
}

// MediaStore persists proof images and returns a durable URL.
type MediaStore interface {
	UploadAttendanceProof(ctx context.Context, employeeID string, workDate string, image []byte, kind string) (string, error)
	DeleteFile(ctx context.Context, url string) error
}

// AttendanceService is the session ledger plus its read-side views.
type AttendanceService interface {
	// CheckIn opens a new session for the authenticated employee.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceDayResponse, error)

	// CheckOut closes the open session.
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceDayResponse, error)

	// SetDayStatus records the leave subsystem's status for a day.
	SetDayStatus(ctx context.Context, req SetDayStatusRequest) (AttendanceDayResponse, error)

	TodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)
	WeekSummary(ctx context.Context, employeeID string) (SummaryResponse, error)
	MonthSummary(ctx context.Context, employeeID string) (SummaryResponse, error)
	DailyDetail(ctx context.Context, employeeID string, workDate string) (DailyDetailResponse, error)
	MonthlyCalendar(ctx context.Context, employeeID string, year, month int) (MonthlyCalendarResponse, error)
	History(ctx context.Context, employeeID string, filter HistoryFilter) (HistoryResponse, error)
}
