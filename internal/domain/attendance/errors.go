package attendance

import "errors"

// Attendance domain errors
var (
	// Identity / verification
	ErrNoReferenceImage        = errors.New("no face reference image enrolled for this employee")
	ErrFaceMismatch            = errors.New("captured face does not match the enrolled reference")
	ErrVerificationUnavailable = errors.New("face verification service is unavailable")

	// Session ordering
	ErrSessionOrderViolation = errors.New("check-in and check-out must alternate")
	ErrNoOpenSession         = errors.New("you have not checked in today")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrInvalidStatus  = errors.New("invalid attendance status")
)
