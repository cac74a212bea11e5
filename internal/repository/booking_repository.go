package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mechhub/internal/model"
)

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	Update(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Booking, error)
	ListByMechanic(ctx context.Context, mechanicID uuid.UUID) ([]model.Booking, error)
	ListByMechanicAndStatus(ctx context.Context, mechanicID uuid.UUID, status model.BookingStatus) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.BookingStatus) (int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create creates a new booking record.
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// Update updates an existing booking record.
func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

// FindByID finds a booking by ID.
func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate finds a booking by ID with a row-level lock so concurrent
// transitions serialize on the row.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListByCustomer lists a customer's bookings, newest first.
func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListByMechanic lists bookings assigned to a mechanic profile, newest first.
func (r *bookingRepository) ListByMechanic(ctx context.Context, mechanicID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).Where("mechanic_id = ?", mechanicID).
		Order("created_at DESC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListByMechanicAndStatus lists a mechanic's bookings filtered by status.
func (r *bookingRepository) ListByMechanicAndStatus(ctx context.Context, mechanicID uuid.UUID, status model.BookingStatus) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).Where("mechanic_id = ? AND status = ?", mechanicID, status).
		Order("created_at DESC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListAll lists every booking, newest first. Admin view.
func (r *bookingRepository) ListAll(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Count returns the total number of bookings.
func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of bookings in a given status.
func (r *bookingRepository) CountByStatus(ctx context.Context, status model.BookingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
