package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType classifies the booking event a notification describes.
type NotificationType string

const (
	NotificationBookingRequest   NotificationType = "BOOKING_REQUEST"
	NotificationBookingAccepted  NotificationType = "BOOKING_ACCEPTED"
	NotificationBookingRejected  NotificationType = "BOOKING_REJECTED"
	NotificationBookingStarted   NotificationType = "BOOKING_STARTED"
	NotificationBookingCompleted NotificationType = "BOOKING_COMPLETED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationSystem           NotificationType = "SYSTEM"
)

// Notification is a server-generated per-user message describing a booking
// event. Only the recipient may mark it read; it is never deleted by normal flow.
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID        `json:"user_id" gorm:"type:char(36);not null;index"`
	Title     string           `json:"title" gorm:"size:255;not null"`
	Message   string           `json:"message" gorm:"size:500;not null"`
	Type      NotificationType `json:"type" gorm:"type:varchar(30);not null"`
	BookingID *uuid.UUID       `json:"booking_id,omitempty" gorm:"type:char(36);index"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
