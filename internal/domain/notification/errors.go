package notification

import "errors"

// Notification domain errors
var (
	ErrNoRecipients = errors.New("notification has no recipients")
)
