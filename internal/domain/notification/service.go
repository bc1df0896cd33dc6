package notification

import (
	"context"
)

// Notifier delivers a notification. Delivery is best-effort; callers log
// failures and continue.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Service is the Notifier plus the subscription side used by the stream
// endpoint.
type Service interface {
	Notifier

	// Subscribe returns the employee's event channel and its cleanup func.
	Subscribe(ctx context.Context, employeeID string) (<-chan Event, func())
}
