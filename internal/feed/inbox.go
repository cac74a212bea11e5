package feed

import (
	"encoding/json"
	"sync"

	"mechhub/internal/model"
)

// Inbox is the client-side view of a user's pushed state: the booking list and
// the notification list, kept consistent under redelivery. Events may arrive
// more than once after a reconnect; applying a duplicate never corrupts the
// view.
type Inbox struct {
	mu            sync.RWMutex
	bookings      []model.Booking
	notifications []model.Notification
}

// NewInbox creates an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Attach subscribes the inbox to the client's booking and notification
// destinations.
func (i *Inbox) Attach(c *Client) error {
	if err := c.Subscribe(DestinationBookingUpdates, i.HandleBookingUpdate); err != nil {
		return err
	}
	return c.Subscribe(DestinationNotifications, i.HandleNotification)
}

// HandleBookingUpdate merges a pushed booking state by ID: a known booking is
// replaced in place, an unknown one is prepended.
func (i *Inbox) HandleBookingUpdate(env Envelope) {
	var booking model.Booking
	if err := json.Unmarshal(env.Payload, &booking); err != nil {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	for idx := range i.bookings {
		if i.bookings[idx].ID == booking.ID {
			i.bookings[idx] = booking
			return
		}
	}
	i.bookings = append([]model.Booking{booking}, i.bookings...)
}

// HandleNotification prepends a pushed notification. A notification whose ID
// is already present is dropped.
func (i *Inbox) HandleNotification(env Envelope) {
	var notification model.Notification
	if err := json.Unmarshal(env.Payload, &notification); err != nil {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	for idx := range i.notifications {
		if i.notifications[idx].ID == notification.ID {
			return
		}
	}
	i.notifications = append([]model.Notification{notification}, i.notifications...)
}

// Bookings returns a snapshot of the booking list, most recently updated
// first.
func (i *Inbox) Bookings() []model.Booking {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]model.Booking, len(i.bookings))
	copy(out, i.bookings)
	return out
}

// Notifications returns a snapshot of the notification list, newest first.
func (i *Inbox) Notifications() []model.Notification {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]model.Notification, len(i.notifications))
	copy(out, i.notifications)
	return out
}

// UnreadCount counts the unread notifications in the current view. It is
// always derived from the list, never tracked separately.
func (i *Inbox) UnreadCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	count := 0
	for idx := range i.notifications {
		if !i.notifications[idx].IsRead {
			count++
		}
	}
	return count
}

// MarkRead flags a notification as read in the local view.
func (i *Inbox) MarkRead(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for idx := range i.notifications {
		if i.notifications[idx].ID.String() == id {
			i.notifications[idx].IsRead = true
			return
		}
	}
}
