package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mechhub/internal/model"
)

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Review, error)
	ListByMechanic(ctx context.Context, mechanicID uuid.UUID) ([]model.Review, error)
	AggregateByMechanic(ctx context.Context, mechanicID uuid.UUID) (avg float64, count int64, err error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create creates a new review.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByBookingID finds the review for a booking, if any.
func (r *reviewRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByMechanic lists a mechanic's reviews, newest first.
func (r *reviewRepository) ListByMechanic(ctx context.Context, mechanicID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).Where("mechanic_id = ?", mechanicID).
		Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// AggregateByMechanic returns the average rating and review count for a mechanic.
func (r *reviewRepository) AggregateByMechanic(ctx context.Context, mechanicID uuid.UUID) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("mechanic_id = ?", mechanicID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Avg, result.Count, nil
}
