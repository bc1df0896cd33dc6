package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrEmployeeIDRequired):
		Forbidden(w, "Token is not bound to an employee")
	case errors.Is(err, auth.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoReferenceImage):
		UnprocessableEntity(w, "NO_REFERENCE_IMAGE", "No face reference enrolled, enroll your face first")
	case errors.Is(err, attendance.ErrFaceMismatch):
		ForbiddenWithCode(w, "FACE_MISMATCH", "Face does not match the enrolled reference")
	case errors.Is(err, attendance.ErrVerificationUnavailable):
		ServiceUnavailable(w, "Face verification is temporarily unavailable, please retry")
	case errors.Is(err, attendance.ErrSessionOrderViolation):
		ConflictWithCode(w, "SESSION_ORDER_VIOLATION", "Check-in and check-out must alternate")
	case errors.Is(err, attendance.ErrNoOpenSession):
		ConflictWithCode(w, "NO_OPEN_SESSION", "You have not checked in today")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidStatus):
		BadRequest(w, "Invalid attendance status", nil)

	// Department domain errors
	case errors.Is(err, department.ErrRateNotFound):
		NotFound(w, "No hourly rate could be resolved")
	case errors.Is(err, department.ErrDepartmentIDEmpty):
		BadRequest(w, "department_id is required", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Media errors
	case errors.Is(err, file.ErrInvalidImage):
		BadRequest(w, "Uploaded file is not a valid image", nil)
	case errors.Is(err, file.ErrUpload):
		BadGateway(w, "Failed to store uploaded image")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
