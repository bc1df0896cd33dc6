package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/duration"
	"golang.org/x/sync/errgroup"
)

const (
	proofKindCheckIn  = "CHECK_IN"
	proofKindCheckOut = "CHECK_OUT"
)

// RateResolver looks up the hourly rate stamped on a tagged check-in.
type RateResolver interface {
	ResolveRate(ctx context.Context, employeeID string, departmentID *string) (department.ResolvedRate, error)
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	rateResolver RateResolver
	faceVerifier attendance.FaceVerifier
	mediaStore   attendance.MediaStore
	notifier     notification.Notifier

	standardHours   float64
	lateAfterHour   int
	lateAfterMinute int
	loc             *time.Location
	now             func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	rateResolver RateResolver,
	faceVerifier attendance.FaceVerifier,
	mediaStore attendance.MediaStore,
	notifier notification.Notifier,
	cfg config.AttendanceConfig,
	loc *time.Location,
) attendance.AttendanceService {
	return newAttendanceService(attendanceRepo, employeeRepo, rateResolver, faceVerifier, mediaStore, notifier, cfg, loc)
}

func newAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	rateResolver RateResolver,
	faceVerifier attendance.FaceVerifier,
	mediaStore attendance.MediaStore,
	notifier notification.Notifier,
	cfg config.AttendanceConfig,
	loc *time.Location,
) *AttendanceServiceImpl {
	if loc == nil {
		loc = time.Local
	}
	standardHours := cfg.StandardHours
	if standardHours <= 0 {
		standardHours = duration.StandardHours
	}
	hour, minute := cfg.LateAfterClock()

	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		rateResolver:         rateResolver,
		faceVerifier:         faceVerifier,
		mediaStore:           mediaStore,
		notifier:             notifier,
		standardHours:        standardHours,
		lateAfterHour:        hour,
		lateAfterMinute:      minute,
		loc:                  loc,
		now:                  time.Now,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceDayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceDayResponse{}, err
	}

	now := s.now().In(s.loc)
	workDate := now.Format(attendance.DateLayout)

	// Identity is verified first; the session order is checked under the day lock.
	proofURL, err := s.verifyCapture(ctx, req.EmployeeID, workDate, req.Image, proofKindCheckIn)
	if err != nil {
		return attendance.AttendanceDayResponse{}, err
	}

	event := attendance.SessionEvent{
		Time:     now,
		ImageURL: proofURL,
		Location: attendance.Location{
			Address:     req.Address,
			Coordinates: [2]float64{req.Longitude, req.Latitude},
		},
	}

	if req.DepartmentID != nil && *req.DepartmentID != "" {
		rate, err := s.rateResolver.ResolveRate(ctx, req.EmployeeID, req.DepartmentID)
		switch {
		case errors.Is(err, department.ErrRateNotFound):
			slog.Warn("No hourly rate at check-in, leaving it for allocation",
				"employee_id", req.EmployeeID,
				"department_id", *req.DepartmentID,
			)
			event.DepartmentID = req.DepartmentID
		case err != nil:
			s.discardProof(ctx, proofURL)
			return attendance.AttendanceDayResponse{}, fmt.Errorf("failed to resolve hourly rate: %w", err)
		default:
			event.DepartmentID = req.DepartmentID
			hourlyRate := rate.HourlyRate
			event.HourlyRate = &hourlyRate
		}
	}

	day, err := s.AttendanceRepository.Modify(ctx, req.EmployeeID, workDate, func(day *attendance.AttendanceDay) error {
		day.AdoptLegacy()
		if day.HasOpenSession() {
			return attendance.ErrSessionOrderViolation
		}
		day.CheckIns = append(day.CheckIns, event)
		// A check-in is evidence of presence; only leave survives it.
		if day.Status != attendance.StatusOnLeave {
			day.Status = attendance.StatusPresent
		}
		s.recompute(day)
		return nil
	})
	if err != nil {
		s.discardProof(ctx, proofURL)
		if errors.Is(err, attendance.ErrSessionOrderViolation) {
			return attendance.AttendanceDayResponse{}, err
		}
		return attendance.AttendanceDayResponse{}, fmt.Errorf("failed to record check-in: %w", err)
	}

	session := len(day.CheckIns)
	s.notify(ctx, notification.Notification{
		Recipients: []string{req.EmployeeID},
		Type:       notification.TypeAttendanceCheckIn,
		Title:      "Check-in recorded",
		Body:       fmt.Sprintf("Session %d started at %s", session, now.Format("15:04")),
		Payload: map[string]interface{}{
			"date":    workDate,
			"session": session,
		},
	})

	return toDayResponse(day), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceDayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceDayResponse{}, err
	}

	now := s.now().In(s.loc)
	workDate := now.Format(attendance.DateLayout)

	proofURL, err := s.verifyCapture(ctx, req.EmployeeID, workDate, req.Image, proofKindCheckOut)
	if err != nil {
		return attendance.AttendanceDayResponse{}, err
	}

	event := attendance.SessionEvent{
		Time:     now,
		ImageURL: proofURL,
		Location: attendance.Location{
			Address:     req.Address,
			Coordinates: [2]float64{req.Longitude, req.Latitude},
		},
	}

	day, err := s.AttendanceRepository.Modify(ctx, req.EmployeeID, workDate, func(day *attendance.AttendanceDay) error {
		if err := checkOutAllowed(day); err != nil {
			return err
		}
		day.CheckOuts = append(day.CheckOuts, event)
		s.recompute(day)
		return nil
	})
	if err != nil {
		s.discardProof(ctx, proofURL)
		if errors.Is(err, attendance.ErrSessionOrderViolation) || errors.Is(err, attendance.ErrNoOpenSession) {
			return attendance.AttendanceDayResponse{}, err
		}
		return attendance.AttendanceDayResponse{}, fmt.Errorf("failed to record check-out: %w", err)
	}

	s.notify(ctx, notification.Notification{
		Recipients: []string{req.EmployeeID},
		Type:       notification.TypeAttendanceCheckOut,
		Title:      "Check-out recorded",
		Body:       fmt.Sprintf("Worked %s today", day.TotalHours),
		Payload: map[string]interface{}{
			"date":        workDate,
			"session":     len(day.CheckOuts),
			"total_hours": day.TotalHours,
			"overtime":    day.Overtime,
		},
	})

	return toDayResponse(day), nil
}

// SetDayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SetDayStatus(ctx context.Context, req attendance.SetDayStatusRequest) (attendance.AttendanceDayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceDayResponse{}, err
	}

	day, err := s.AttendanceRepository.Modify(ctx, req.EmployeeID, req.WorkDate, func(day *attendance.AttendanceDay) error {
		day.AdoptLegacy()
		day.Status = req.Status
		if day.TotalHours == "" {
			s.recompute(day)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceDayResponse{}, fmt.Errorf("failed to set day status: %w", err)
	}

	slog.Info("Attendance day status updated",
		"employee_id", req.EmployeeID,
		"work_date", req.WorkDate,
		"status", req.Status,
	)
	return toDayResponse(day), nil
}

// checkOutAllowed rejects a check-out on a day with no open session.
func checkOutAllowed(day *attendance.AttendanceDay) error {
	if day == nil {
		return attendance.ErrNoOpenSession
	}
	day.AdoptLegacy()
	if len(day.CheckIns) == 0 {
		return attendance.ErrNoOpenSession
	}
	if len(day.CheckOuts) >= len(day.CheckIns) {
		return attendance.ErrSessionOrderViolation
	}
	return nil
}

// verifyCapture uploads the proof and matches it against the employee's
// reference image. The proof is removed again on any failure.
func (s *AttendanceServiceImpl) verifyCapture(ctx context.Context, employeeID, workDate string, image []byte, kind string) (string, error) {
	var (
		proofURL string
		emp      employee.Employee
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := s.mediaStore.UploadAttendanceProof(gctx, employeeID, workDate, image, kind)
		if err != nil {
			return fmt.Errorf("failed to upload attendance proof: %w", err)
		}
		proofURL = url
		return nil
	})
	g.Go(func() error {
		e, err := s.EmployeeRepository.GetByID(gctx, employeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return err
			}
			return fmt.Errorf("failed to load employee: %w", err)
		}
		emp = e
		return nil
	})
	if err := g.Wait(); err != nil {
		s.discardProof(ctx, proofURL)
		return "", err
	}

	if !emp.HasFaceReference() {
		s.discardProof(ctx, proofURL)
		return "", attendance.ErrNoReferenceImage
	}

	match, err := s.faceVerifier.Verify(ctx, proofURL, *emp.FaceReferenceURL)
	if err != nil {
		s.discardProof(ctx, proofURL)
		return "", fmt.Errorf("%w: %w", attendance.ErrVerificationUnavailable, err)
	}
	if !match {
		s.discardProof(ctx, proofURL)
		return "", attendance.ErrFaceMismatch
	}
	return proofURL, nil
}

// recompute refreshes the cached day span from the first check-in to the
// most recent check-out. An open session keeps the span up to the last
// stored check-out.
func (s *AttendanceServiceImpl) recompute(day *attendance.AttendanceDay) {
	var start, end *time.Time
	if first := day.FirstCheckIn(); first != nil {
		start = &first.Time
	}
	if last := day.LastCheckOut(); last != nil {
		end = &last.Time
	}
	day.TotalHours = duration.Between(start, end)
	day.Overtime = duration.Overtime(start, end, s.standardHours)
}

func (s *AttendanceServiceImpl) discardProof(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.mediaStore.DeleteFile(context.WithoutCancel(ctx), url); err != nil {
		slog.Warn("Failed to delete unused attendance proof", "url", url, "error", err)
	}
}

func (s *AttendanceServiceImpl) notify(ctx context.Context, n notification.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		slog.Warn("Failed to deliver attendance notification",
			"type", n.Type,
			"error", err,
		)
	}
}

func toEventResponse(ev attendance.SessionEvent) attendance.SessionEventResponse {
	resp := attendance.SessionEventResponse{
		Time:         ev.Time,
		ImageURL:     ev.ImageURL,
		Location:     ev.Location,
		DepartmentID: ev.DepartmentID,
	}
	if ev.HourlyRate != nil {
		rate := ev.HourlyRate.StringFixed(2)
		resp.HourlyRate = &rate
	}
	return resp
}

func toEventResponsePtr(ev *attendance.SessionEvent) *attendance.SessionEventResponse {
	if ev == nil {
		return nil
	}
	resp := toEventResponse(*ev)
	return &resp
}

func toDayResponse(day attendance.AttendanceDay) attendance.AttendanceDayResponse {
	day.AdoptLegacy()
	checkIns := make([]attendance.SessionEventResponse, 0, len(day.CheckIns))
	for _, ev := range day.CheckIns {
		checkIns = append(checkIns, toEventResponse(ev))
	}
	checkOuts := make([]attendance.SessionEventResponse, 0, len(day.CheckOuts))
	for _, ev := range day.CheckOuts {
		checkOuts = append(checkOuts, toEventResponse(ev))
	}

	return attendance.AttendanceDayResponse{
		ID:          day.ID,
		EmployeeID:  day.EmployeeID,
		Date:        day.WorkDate,
		CheckIns:    checkIns,
		CheckOuts:   checkOuts,
		CheckIn:     toEventResponsePtr(day.FirstCheckIn()),
		CheckOut:    toEventResponsePtr(day.LastCheckOut()),
		Status:      day.Status,
		TotalHours:  day.TotalHours,
		Overtime:    day.Overtime,
		IsCheckedIn: day.HasOpenSession(),
	}
}
