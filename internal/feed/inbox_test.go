package feed

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"mechhub/internal/model"
)

func bookingEnvelope(t *testing.T, booking model.Booking) Envelope {
	t.Helper()
	payload, err := json.Marshal(booking)
	assert.NoError(t, err)
	return Envelope{Destination: DestinationBookingUpdates, Type: "booking_update", Payload: payload}
}

func notificationEnvelope(t *testing.T, n model.Notification) Envelope {
	t.Helper()
	payload, err := json.Marshal(n)
	assert.NoError(t, err)
	return Envelope{Destination: DestinationNotifications, Type: "notification", Payload: payload}
}

func TestInbox_BookingMerge(t *testing.T) {
	inbox := NewInbox()
	first := model.Booking{ID: uuid.New(), Status: model.BookingStatusPending}
	second := model.Booking{ID: uuid.New(), Status: model.BookingStatusPending}

	inbox.HandleBookingUpdate(bookingEnvelope(t, first))
	inbox.HandleBookingUpdate(bookingEnvelope(t, second))
	assert.Len(t, inbox.Bookings(), 2)
	assert.Equal(t, second.ID, inbox.Bookings()[0].ID, "newest booking first")

	// A state change replaces in place, it never duplicates
	first.Status = model.BookingStatusAccepted
	inbox.HandleBookingUpdate(bookingEnvelope(t, first))

	bookings := inbox.Bookings()
	assert.Len(t, bookings, 2)
	assert.Equal(t, model.BookingStatusAccepted, bookings[1].Status)
}

func TestInbox_BookingRedelivery(t *testing.T) {
	inbox := NewInbox()
	booking := model.Booking{ID: uuid.New(), Status: model.BookingStatusAccepted}

	// Same event arriving twice after a reconnect
	inbox.HandleBookingUpdate(bookingEnvelope(t, booking))
	inbox.HandleBookingUpdate(bookingEnvelope(t, booking))

	assert.Len(t, inbox.Bookings(), 1)
}

func TestInbox_NotificationDedup(t *testing.T) {
	inbox := NewInbox()
	n1 := model.Notification{ID: uuid.New(), Title: "Booking Accepted"}
	n2 := model.Notification{ID: uuid.New(), Title: "Work Started"}

	inbox.HandleNotification(notificationEnvelope(t, n1))
	inbox.HandleNotification(notificationEnvelope(t, n2))
	inbox.HandleNotification(notificationEnvelope(t, n1))

	notifications := inbox.Notifications()
	assert.Len(t, notifications, 2)
	assert.Equal(t, n2.ID, notifications[0].ID, "newest notification first")
}

func TestInbox_UnreadCount(t *testing.T) {
	inbox := NewInbox()
	n1 := model.Notification{ID: uuid.New()}
	n2 := model.Notification{ID: uuid.New()}
	read := model.Notification{ID: uuid.New(), IsRead: true}

	inbox.HandleNotification(notificationEnvelope(t, n1))
	inbox.HandleNotification(notificationEnvelope(t, n2))
	inbox.HandleNotification(notificationEnvelope(t, read))
	assert.Equal(t, 2, inbox.UnreadCount())

	inbox.MarkRead(n1.ID.String())
	assert.Equal(t, 1, inbox.UnreadCount())

	// Marking the same notification again changes nothing
	inbox.MarkRead(n1.ID.String())
	assert.Equal(t, 1, inbox.UnreadCount())
}

func TestInbox_BadPayloadIgnored(t *testing.T) {
	inbox := NewInbox()
	inbox.HandleNotification(Envelope{Destination: DestinationNotifications, Payload: json.RawMessage(`"garbage"`)})
	inbox.HandleBookingUpdate(Envelope{Destination: DestinationBookingUpdates, Payload: json.RawMessage(`42`)})

	assert.Empty(t, inbox.Notifications())
	assert.Empty(t, inbox.Bookings())
}
