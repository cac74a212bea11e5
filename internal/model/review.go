package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a customer's rating of a completed booking. One review per booking;
// the mechanic's running average rating is updated when it is created.
type Review struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	BookingID  uuid.UUID `json:"booking_id" gorm:"type:char(36);uniqueIndex;not null"`
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:char(36);not null;index"`
	MechanicID uuid.UUID `json:"mechanic_id" gorm:"type:char(36);not null;index"`
	Rating     int       `json:"rating" gorm:"not null"` // 1-5
	Comment    string    `json:"comment,omitempty" gorm:"size:500"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
