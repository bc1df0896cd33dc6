package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAttendanceCheckIn      NotificationType = "attendance_check_in"
	TypeAttendanceCheckOut     NotificationType = "attendance_check_out"
	TypeAttendanceOpenReminder NotificationType = "attendance_open_reminder"
	TypeFaceEnrolled           NotificationType = "face_enrolled"
)

// Notification is one best-effort message to a set of employees.
type Notification struct {
	Recipients []string
	Type       NotificationType
	Title      string
	Body       string
	Payload    map[string]interface{}
	CreatedAt  time.Time
}

// Event is what a subscriber receives on the stream.
type Event struct {
	Type      NotificationType       `json:"type"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
