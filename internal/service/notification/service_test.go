package notification

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_DeliversToSubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := NewNotificationService(sse.NewHub(4))
	events, cleanup := svc.Subscribe(ctx, "emp-1")
	defer cleanup()

	err := svc.Notify(ctx, notification.Notification{
		Recipients: []string{"emp-1"},
		Type:       notification.TypeAttendanceCheckIn,
		Title:      "Checked in",
		Body:       "Session 1 started",
	})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, notification.TypeAttendanceCheckIn, ev.Type)
		assert.Equal(t, "Checked in", ev.Title)
		assert.False(t, ev.CreatedAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestNotify_NoRecipients(t *testing.T) {
	svc := NewNotificationService(sse.NewHub(1))
	err := svc.Notify(context.Background(), notification.Notification{Title: "x"})
	assert.ErrorIs(t, err, notification.ErrNoRecipients)
}

func TestSubscribe_CleanupClosesStream(t *testing.T) {
	svc := NewNotificationService(sse.NewHub(1))
	events, cleanup := svc.Subscribe(context.Background(), "emp-1")
	cleanup()

	select {
	case _, open := <-events:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("stream not closed")
	}
}
