package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mechhub/internal/cache"
	"mechhub/internal/errors"
	"mechhub/internal/model"
	"mechhub/internal/repository"
)

const searchCacheTTL = 60 * time.Second

// ProfileInput carries the fields a mechanic submits for their profile.
type ProfileInput struct {
	Skills     string
	City       string
	Pincode    string
	Address    string
	HourlyRate decimal.Decimal
}

// SearchKind selects which field a mechanic search matches on.
type SearchKind string

const (
	SearchByCity    SearchKind = "city"
	SearchByPincode SearchKind = "pincode"
	SearchBySkill   SearchKind = "skill"
)

// MechanicService manages mechanic profiles and customer-facing search.
type MechanicService interface {
	CreateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*model.MechanicProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*model.MechanicProfile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.MechanicProfile, error)
	ToggleAvailability(ctx context.Context, userID uuid.UUID) (*model.MechanicProfile, error)
	Search(ctx context.Context, kind SearchKind, value string) ([]model.MechanicProfile, error)
}

type mechanicService struct {
	userRepo     repository.UserRepository
	mechanicRepo repository.MechanicRepository
	cache        *cache.Client
}

// NewMechanicService creates a new mechanic service.
func NewMechanicService(userRepo repository.UserRepository, mechanicRepo repository.MechanicRepository, cacheClient *cache.Client) MechanicService {
	return &mechanicService{
		userRepo:     userRepo,
		mechanicRepo: mechanicRepo,
		cache:        cacheClient,
	}
}

// CreateProfile registers a mechanic's profile. One profile per user, mechanic
// role required, unverified until an admin approves it.
func (s *mechanicService) CreateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*model.MechanicProfile, error) {
	if err := validateProfileInput(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Role != model.RoleMechanic {
		return nil, fmt.Errorf("%w: only mechanics can create a profile", errors.ErrAuthorization)
	}

	if _, err := s.mechanicRepo.FindByUserID(ctx, userID); err == nil {
		return nil, errors.ErrProfileExists
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check profile existence: %w", err)
	}

	profile := &model.MechanicProfile{
		UserID:      userID,
		Skills:      input.Skills,
		City:        input.City,
		Pincode:     input.Pincode,
		Address:     input.Address,
		HourlyRate:  input.HourlyRate,
		IsAvailable: true,
	}
	if err := s.mechanicRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return profile, nil
}

// UpdateProfile replaces the mutable profile fields.
func (s *mechanicService) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*model.MechanicProfile, error) {
	if err := validateProfileInput(input); err != nil {
		return nil, err
	}

	profile, err := s.mechanicRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrMechanicNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	s.invalidateSearch(ctx, profile)

	profile.Skills = input.Skills
	profile.City = input.City
	profile.Pincode = input.Pincode
	profile.Address = input.Address
	profile.HourlyRate = input.HourlyRate

	if err := s.mechanicRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.invalidateSearch(ctx, profile)

	return profile, nil
}

// GetProfile returns the profile owned by the given user.
func (s *mechanicService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.MechanicProfile, error) {
	profile, err := s.mechanicRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrMechanicNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return profile, nil
}

// ToggleAvailability flips the mechanic's availability flag.
func (s *mechanicService) ToggleAvailability(ctx context.Context, userID uuid.UUID) (*model.MechanicProfile, error) {
	profile, err := s.mechanicRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrMechanicNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	profile.IsAvailable = !profile.IsAvailable
	if err := s.mechanicRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.invalidateSearch(ctx, profile)

	return profile, nil
}

// Search returns bookable mechanics matching the given criterion, rated best
// first. Results are cached briefly to absorb repeated customer queries.
func (s *mechanicService) Search(ctx context.Context, kind SearchKind, value string) ([]model.MechanicProfile, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: search value is required", errors.ErrValidation)
	}

	key := searchCacheKey(kind, value)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.MechanicProfile
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	var (
		profiles []model.MechanicProfile
		err      error
	)
	switch kind {
	case SearchByCity:
		profiles, err = s.mechanicRepo.SearchByCity(ctx, value)
	case SearchByPincode:
		profiles, err = s.mechanicRepo.SearchByPincode(ctx, value)
	case SearchBySkill:
		profiles, err = s.mechanicRepo.SearchBySkill(ctx, value)
	default:
		return nil, fmt.Errorf("%w: unknown search kind %q", errors.ErrValidation, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("search mechanics: %w", err)
	}

	if data, err := json.Marshal(profiles); err == nil {
		s.cache.Set(ctx, key, data, searchCacheTTL)
	}

	return profiles, nil
}

func validateProfileInput(input ProfileInput) error {
	if !input.HourlyRate.IsPositive() {
		return fmt.Errorf("%w: hourly_rate must be positive", errors.ErrValidation)
	}
	return nil
}

func searchCacheKey(kind SearchKind, value string) string {
	return fmt.Sprintf("mechanics:%s:%s", kind, value)
}

// invalidateSearch drops the cached search results that could include this
// profile. Skill keys are unbounded so they rely on the short TTL instead.
func (s *mechanicService) invalidateSearch(ctx context.Context, profile *model.MechanicProfile) {
	s.cache.Delete(ctx, searchCacheKey(SearchByCity, profile.City))
	s.cache.Delete(ctx, searchCacheKey(SearchByPincode, profile.Pincode))
}
