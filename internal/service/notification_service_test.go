package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "mechhub/internal/errors"
	"mechhub/internal/model"
)

func TestNotificationService_MarkRead(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()

	t.Run("marks own unread notification", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockRepo.On("FindByID", mock.Anything, notificationID).Return(&model.Notification{
			ID:     notificationID,
			UserID: userID,
		}, nil)
		mockRepo.On("MarkRead", mock.Anything, notificationID).Return(nil)

		service := NewNotificationService(mockRepo)
		err := service.MarkRead(context.Background(), userID, notificationID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("already read is a no-op", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockRepo.On("FindByID", mock.Anything, notificationID).Return(&model.Notification{
			ID:     notificationID,
			UserID: userID,
			IsRead: true,
		}, nil)

		service := NewNotificationService(mockRepo)
		err := service.MarkRead(context.Background(), userID, notificationID)

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
	})

	t.Run("cannot mark another user's notification", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockRepo.On("FindByID", mock.Anything, notificationID).Return(&model.Notification{
			ID:     notificationID,
			UserID: uuid.New(),
		}, nil)

		service := NewNotificationService(mockRepo)
		err := service.MarkRead(context.Background(), userID, notificationID)

		assert.ErrorIs(t, err, apperrors.ErrAuthorization)
		mockRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockRepo.On("FindByID", mock.Anything, notificationID).Return(nil, gorm.ErrRecordNotFound)

		service := NewNotificationService(mockRepo)
		err := service.MarkRead(context.Background(), userID, notificationID)

		assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
	})
}

func TestNotificationService_UnreadCount(t *testing.T) {
	userID := uuid.New()

	mockRepo := new(MockNotificationRepository)
	mockRepo.On("CountUnread", mock.Anything, userID).Return(int64(3), nil)

	service := NewNotificationService(mockRepo)
	count, err := service.UnreadCount(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	userID := uuid.New()

	mockRepo := new(MockNotificationRepository)
	mockRepo.On("MarkAllRead", mock.Anything, userID).Return(nil)

	service := NewNotificationService(mockRepo)
	assert.NoError(t, service.MarkAllRead(context.Background(), userID))
	mockRepo.AssertExpectations(t)
}
