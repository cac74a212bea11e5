package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mechhub/internal/errors"
	"mechhub/internal/model"
	"mechhub/internal/repository"
)

// NotificationService exposes a user's notification inbox. The unread count is
// always recomputed from storage so it never drifts from the list.
type NotificationService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

// ListForUser returns the user's notifications, newest first.
func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID)
}

// UnreadCount returns the number of unread notifications for the user.
func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead marks one of the user's notifications as read. Marking an already
// read notification is a no-op.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	notification, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrNotificationNotFound
		}
		return fmt.Errorf("find notification: %w", err)
	}

	if notification.UserID != userID {
		return fmt.Errorf("%w: notification belongs to another user", errors.ErrAuthorization)
	}

	if notification.IsRead {
		return nil
	}

	return s.notificationRepo.MarkRead(ctx, notificationID)
}

// MarkAllRead marks every notification of the user as read.
func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
