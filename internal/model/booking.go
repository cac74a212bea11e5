package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusAccepted   BookingStatus = "ACCEPTED"
	BookingStatusRejected   BookingStatus = "REJECTED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// BookingAction is an actor-triggered lifecycle action.
type BookingAction string

const (
	ActionAccept   BookingAction = "accept"
	ActionReject   BookingAction = "reject"
	ActionStart    BookingAction = "start"
	ActionComplete BookingAction = "complete"
	ActionCancel   BookingAction = "cancel"
)

// transitions is the canonical lifecycle graph. Anything not listed here is an
// illegal transition. Terminal states (REJECTED, COMPLETED, CANCELLED) have no
// outgoing edges.
var transitions = map[BookingStatus]map[BookingAction]BookingStatus{
	BookingStatusPending: {
		ActionAccept: BookingStatusAccepted,
		ActionReject: BookingStatusRejected,
		ActionCancel: BookingStatusCancelled,
	},
	BookingStatusAccepted: {
		ActionStart:    BookingStatusInProgress,
		ActionComplete: BookingStatusCompleted,
		ActionCancel:   BookingStatusCancelled,
	},
	BookingStatusInProgress: {
		ActionComplete: BookingStatusCompleted,
	},
}

// NextStatus returns the status reached from s by applying action, and whether
// the edge exists.
func (s BookingStatus) NextStatus(action BookingAction) (BookingStatus, bool) {
	next, ok := transitions[s][action]
	return next, ok
}

// Terminal reports whether the status has no outgoing edges.
func (s BookingStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// MechanicAction reports whether the action belongs to the assigned mechanic.
// Cancel is the only customer action.
func (a BookingAction) MechanicAction() bool {
	return a != ActionCancel
}

// Booking links a customer to a mechanic with a lifecycle status. TotalCost is
// nil until the mechanic accepts and is immutable afterwards.
type Booking struct {
	ID                 uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	CustomerID         uuid.UUID        `json:"customer_id" gorm:"type:char(36);not null;index"`
	MechanicID         uuid.UUID        `json:"mechanic_id" gorm:"type:char(36);not null;index"`
	ServiceDescription string           `json:"service_description" gorm:"size:200;not null"`
	Address            string           `json:"address" gorm:"size:200;not null"`
	City               string           `json:"city" gorm:"size:100;not null"`
	Pincode            string           `json:"pincode" gorm:"size:10;not null"`
	PreferredDate      time.Time        `json:"preferred_date" gorm:"not null"`
	EstimatedDuration  int              `json:"estimated_duration" gorm:"not null"` // hours, 1-8
	Notes              string           `json:"notes,omitempty" gorm:"size:500"`
	Status             BookingStatus    `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	TotalCost          *decimal.Decimal `json:"total_cost" gorm:"type:decimal(12,2)"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	AcceptedAt         *time.Time       `json:"accepted_at,omitempty"`
	CompletedAt        *time.Time       `json:"completed_at,omitempty"`

	// Relations
	Customer User            `json:"-" gorm:"foreignKey:CustomerID"`
	Mechanic MechanicProfile `json:"-" gorm:"foreignKey:MechanicID"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
