package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mechhub/internal/model"
)

// MechanicRepository defines mechanic profile persistence operations.
type MechanicRepository interface {
	Create(ctx context.Context, profile *model.MechanicProfile) error
	Update(ctx context.Context, profile *model.MechanicProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MechanicProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.MechanicProfile, error)
	List(ctx context.Context) ([]model.MechanicProfile, error)
	SearchByCity(ctx context.Context, city string) ([]model.MechanicProfile, error)
	SearchByPincode(ctx context.Context, pincode string) ([]model.MechanicProfile, error)
	SearchBySkill(ctx context.Context, skill string) ([]model.MechanicProfile, error)
}

type mechanicRepository struct {
	db *gorm.DB
}

// NewMechanicRepository creates a new mechanic repository.
func NewMechanicRepository(db *gorm.DB) MechanicRepository {
	return &mechanicRepository{db: db}
}

// Create creates a new mechanic profile.
func (r *mechanicRepository) Create(ctx context.Context, profile *model.MechanicProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update updates an existing mechanic profile.
func (r *mechanicRepository) Update(ctx context.Context, profile *model.MechanicProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// FindByID finds a mechanic profile by ID.
func (r *mechanicRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MechanicProfile, error) {
	var profile model.MechanicProfile
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUserID finds the profile owned by the given user.
func (r *mechanicRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.MechanicProfile, error) {
	var profile model.MechanicProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns all mechanic profiles, newest first. Admin moderation view.
func (r *mechanicRepository) List(ctx context.Context) ([]model.MechanicProfile, error) {
	var profiles []model.MechanicProfile
	if err := r.db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// bookableScope restricts customer searches to profiles that can be booked.
func bookableScope(db *gorm.DB) *gorm.DB {
	return db.Where("is_verified = ? AND is_available = ?", true, true)
}

// SearchByCity returns bookable mechanics in a city.
func (r *mechanicRepository) SearchByCity(ctx context.Context, city string) ([]model.MechanicProfile, error) {
	var profiles []model.MechanicProfile
	err := r.db.WithContext(ctx).Preload("User").Scopes(bookableScope).
		Where("city = ?", city).
		Order("rating DESC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// SearchByPincode returns bookable mechanics in a pincode area.
func (r *mechanicRepository) SearchByPincode(ctx context.Context, pincode string) ([]model.MechanicProfile, error) {
	var profiles []model.MechanicProfile
	err := r.db.WithContext(ctx).Preload("User").Scopes(bookableScope).
		Where("pincode = ?", pincode).
		Order("rating DESC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// SearchBySkill returns bookable mechanics whose skill list matches the term.
func (r *mechanicRepository) SearchBySkill(ctx context.Context, skill string) ([]model.MechanicProfile, error) {
	var profiles []model.MechanicProfile
	err := r.db.WithContext(ctx).Preload("User").Scopes(bookableScope).
		Where("skills LIKE ?", "%"+skill+"%").
		Order("rating DESC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
