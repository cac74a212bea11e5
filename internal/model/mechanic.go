package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MechanicProfile holds the service listing a MECHANIC user exposes to customers.
// One profile per user. IsVerified is admin-controlled and starts false.
type MechanicProfile struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID       `json:"user_id" gorm:"type:char(36);uniqueIndex;not null"`
	Skills      string          `json:"skills" gorm:"size:200;not null"`
	City        string          `json:"city" gorm:"size:100;not null;index"`
	Pincode     string          `json:"pincode" gorm:"size:10;not null;index"`
	Address     string          `json:"address" gorm:"size:200;not null"`
	HourlyRate  decimal.Decimal `json:"hourly_rate" gorm:"type:decimal(10,2);not null"`
	IsAvailable bool            `json:"is_available" gorm:"default:true;index"`
	IsVerified  bool            `json:"is_verified" gorm:"default:false;index"`
	Rating      float64         `json:"rating" gorm:"default:0"`
	TotalJobs   int             `json:"total_jobs" gorm:"default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	User User `json:"user" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (m *MechanicProfile) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Bookable reports whether customers may create bookings against this profile.
func (m *MechanicProfile) Bookable() bool {
	return m.IsAvailable && m.IsVerified
}
