package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mechhub/internal/cache"
	"mechhub/internal/errors"
	"mechhub/internal/model"
	"mechhub/internal/repository"
	"mechhub/internal/ws"
)

// Statistics summarizes platform activity for the admin dashboard.
type Statistics struct {
	TotalUsers        int64 `json:"total_users"`
	TotalCustomers    int64 `json:"total_customers"`
	TotalMechanics    int64 `json:"total_mechanics"`
	TotalBookings     int64 `json:"total_bookings"`
	PendingBookings   int64 `json:"pending_bookings"`
	CompletedBookings int64 `json:"completed_bookings"`
	CancelledBookings int64 `json:"cancelled_bookings"`
}

// AdminService covers moderation: user and mechanic oversight, verification
// and platform statistics.
type AdminService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListMechanics(ctx context.Context) ([]model.MechanicProfile, error)
	VerifyMechanic(ctx context.Context, mechanicID uuid.UUID) (*model.MechanicProfile, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	Statistics(ctx context.Context) (*Statistics, error)
	BroadcastAnnouncement(ctx context.Context, title, message string) error
}

type adminService struct {
	txm          repository.TxManager
	userRepo     repository.UserRepository
	mechanicRepo repository.MechanicRepository
	bookingRepo  repository.BookingRepository
	cache        *cache.Client
	publisher    Publisher
}

// NewAdminService creates a new admin service.
func NewAdminService(
	txm repository.TxManager,
	userRepo repository.UserRepository,
	mechanicRepo repository.MechanicRepository,
	bookingRepo repository.BookingRepository,
	cacheClient *cache.Client,
	publisher Publisher,
) AdminService {
	return &adminService{
		txm:          txm,
		userRepo:     userRepo,
		mechanicRepo: mechanicRepo,
		bookingRepo:  bookingRepo,
		cache:        cacheClient,
		publisher:    publisher,
	}
}

// ListUsers returns all registered users.
func (s *adminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// ListMechanics returns all mechanic profiles, verified or not.
func (s *adminService) ListMechanics(ctx context.Context) ([]model.MechanicProfile, error) {
	return s.mechanicRepo.List(ctx)
}

// VerifyMechanic approves a mechanic profile and notifies its owner. Verifying
// an already verified profile is a no-op.
func (s *adminService) VerifyMechanic(ctx context.Context, mechanicID uuid.UUID) (*model.MechanicProfile, error) {
	var (
		profile      *model.MechanicProfile
		notification *model.Notification
	)

	err := s.txm.WithTransaction(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		profile, err = repos.Mechanics.FindByID(ctx, mechanicID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrMechanicNotFound
			}
			return fmt.Errorf("find mechanic: %w", err)
		}

		if profile.IsVerified {
			return nil
		}

		profile.IsVerified = true
		if err := repos.Mechanics.Update(ctx, profile); err != nil {
			return fmt.Errorf("update mechanic: %w", err)
		}

		notification = &model.Notification{
			UserID:  profile.UserID,
			Title:   "Profile Verified",
			Message: "Your mechanic profile has been verified. You can now receive bookings.",
			Type:    model.NotificationSystem,
		}
		if err := repos.Notifications.Create(ctx, notification); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if notification != nil {
		s.publisher.PublishToUser(notification.UserID.String(), ws.DestinationNotifications, ws.EventTypeNotification, notification)
		s.cache.Delete(ctx, searchCacheKey(SearchByCity, profile.City))
		s.cache.Delete(ctx, searchCacheKey(SearchByPincode, profile.Pincode))
	}

	return profile, nil
}

// DeleteUser removes a user account.
func (s *adminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return s.userRepo.Delete(ctx, userID)
}

// Statistics gathers the platform counters in one shot.
func (s *adminService) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{}

	var err error
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.TotalCustomers, err = s.userRepo.CountByRole(ctx, model.RoleCustomer); err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	if stats.TotalMechanics, err = s.userRepo.CountByRole(ctx, model.RoleMechanic); err != nil {
		return nil, fmt.Errorf("count mechanics: %w", err)
	}
	if stats.TotalBookings, err = s.bookingRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	if stats.PendingBookings, err = s.bookingRepo.CountByStatus(ctx, model.BookingStatusPending); err != nil {
		return nil, fmt.Errorf("count pending bookings: %w", err)
	}
	if stats.CompletedBookings, err = s.bookingRepo.CountByStatus(ctx, model.BookingStatusCompleted); err != nil {
		return nil, fmt.Errorf("count completed bookings: %w", err)
	}
	if stats.CancelledBookings, err = s.bookingRepo.CountByStatus(ctx, model.BookingStatusCancelled); err != nil {
		return nil, fmt.Errorf("count cancelled bookings: %w", err)
	}

	return stats, nil
}

// BroadcastAnnouncement pushes a system message to every connected session.
func (s *adminService) BroadcastAnnouncement(ctx context.Context, title, message string) error {
	if title == "" || message == "" {
		return fmt.Errorf("%w: title and message are required", errors.ErrValidation)
	}
	s.publisher.Broadcast(ws.EventTypeSystem, map[string]string{
		"title":   title,
		"message": message,
	})
	return nil
}
