package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

type NotificationServiceImpl struct {
	hub *sse.Hub
	now func() time.Time
}

func NewNotificationService(hub *sse.Hub) notification.Service {
	return &NotificationServiceImpl{
		hub: hub,
		now: time.Now,
	}
}

// Notify implements notification.Notifier. Recipients without an open
// stream simply miss the event.
func (s *NotificationServiceImpl) Notify(ctx context.Context, n notification.Notification) error {
	if len(n.Recipients) == 0 {
		return notification.ErrNoRecipients
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	delivered := s.hub.Publish(n.Recipients, sse.Message{
		Event: string(n.Type),
		Data: notification.Event{
			Type:      n.Type,
			Title:     n.Title,
			Body:      n.Body,
			Payload:   n.Payload,
			CreatedAt: n.CreatedAt,
		},
	})

	slog.Debug("Notification published",
		"type", n.Type,
		"recipients", len(n.Recipients),
		"delivered", delivered,
	)
	return nil
}

// Subscribe implements notification.Service.
func (s *NotificationServiceImpl) Subscribe(ctx context.Context, employeeID string) (<-chan notification.Event, func()) {
	messages, cleanup := s.hub.Subscribe(employeeID)
	out := make(chan notification.Event)

	go func() {
		defer close(out)
		for msg := range messages {
			ev, ok := msg.Data.(notification.Event)
			if !ok {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				cleanup()
				return
			}
		}
	}()

	return out, cleanup
}
