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
	"mechhub/internal/repository"
	"mechhub/internal/ws"
)

type adminServiceFixture struct {
	users         *MockUserRepository
	mechanics     *MockMechanicRepository
	bookings      *MockBookingRepository
	notifications *MockNotificationRepository
	publisher     *recordingPublisher
	service       AdminService
}

func newAdminServiceFixture() *adminServiceFixture {
	f := &adminServiceFixture{
		users:         new(MockUserRepository),
		mechanics:     new(MockMechanicRepository),
		bookings:      new(MockBookingRepository),
		notifications: new(MockNotificationRepository),
		publisher:     &recordingPublisher{},
	}
	txm := &stubTxManager{repos: repository.TxRepos{
		Users:         f.users,
		Mechanics:     f.mechanics,
		Bookings:      f.bookings,
		Notifications: f.notifications,
		Reviews:       new(MockReviewRepository),
	}}
	f.service = NewAdminService(txm, f.users, f.mechanics, f.bookings, nil, f.publisher)
	return f
}

func TestAdminService_VerifyMechanic(t *testing.T) {
	t.Run("verifies and notifies the owner", func(t *testing.T) {
		f := newAdminServiceFixture()
		profile := &model.MechanicProfile{
			ID:     uuid.New(),
			UserID: uuid.New(),
			City:   "Bengaluru",
		}
		f.mechanics.On("FindByID", mock.Anything, profile.ID).Return(profile, nil)
		f.mechanics.On("Update", mock.Anything, profile).Return(nil)
		f.notifications.On("Create", mock.Anything, mock.AnythingOfType("*model.Notification")).Return(nil)

		verified, err := f.service.VerifyMechanic(context.Background(), profile.ID)

		assert.NoError(t, err)
		assert.True(t, verified.IsVerified)

		events := f.publisher.Events()
		assert.Len(t, events, 1)
		assert.Equal(t, profile.UserID.String(), events[0].UserID)
		assert.Equal(t, ws.DestinationNotifications, events[0].Destination)
		assert.Equal(t, ws.EventTypeNotification, events[0].Type)
	})

	t.Run("second verification is a no-op", func(t *testing.T) {
		f := newAdminServiceFixture()
		profile := &model.MechanicProfile{
			ID:         uuid.New(),
			UserID:     uuid.New(),
			IsVerified: true,
		}
		f.mechanics.On("FindByID", mock.Anything, profile.ID).Return(profile, nil)

		verified, err := f.service.VerifyMechanic(context.Background(), profile.ID)

		assert.NoError(t, err)
		assert.True(t, verified.IsVerified)
		f.mechanics.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.Events())
	})

	t.Run("unknown profile", func(t *testing.T) {
		f := newAdminServiceFixture()
		id := uuid.New()
		f.mechanics.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := f.service.VerifyMechanic(context.Background(), id)
		assert.ErrorIs(t, err, apperrors.ErrMechanicNotFound)
	})
}

func TestAdminService_Statistics(t *testing.T) {
	f := newAdminServiceFixture()
	f.users.On("Count", mock.Anything).Return(int64(10), nil)
	f.users.On("CountByRole", mock.Anything, model.RoleCustomer).Return(int64(6), nil)
	f.users.On("CountByRole", mock.Anything, model.RoleMechanic).Return(int64(3), nil)
	f.bookings.On("Count", mock.Anything).Return(int64(20), nil)
	f.bookings.On("CountByStatus", mock.Anything, model.BookingStatusPending).Return(int64(4), nil)
	f.bookings.On("CountByStatus", mock.Anything, model.BookingStatusCompleted).Return(int64(12), nil)
	f.bookings.On("CountByStatus", mock.Anything, model.BookingStatusCancelled).Return(int64(2), nil)

	stats, err := f.service.Statistics(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalUsers)
	assert.Equal(t, int64(6), stats.TotalCustomers)
	assert.Equal(t, int64(3), stats.TotalMechanics)
	assert.Equal(t, int64(20), stats.TotalBookings)
	assert.Equal(t, int64(4), stats.PendingBookings)
	assert.Equal(t, int64(12), stats.CompletedBookings)
	assert.Equal(t, int64(2), stats.CancelledBookings)
}

func TestAdminService_DeleteUser(t *testing.T) {
	t.Run("deletes an existing user", func(t *testing.T) {
		f := newAdminServiceFixture()
		userID := uuid.New()
		f.users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
		f.users.On("Delete", mock.Anything, userID).Return(nil)

		assert.NoError(t, f.service.DeleteUser(context.Background(), userID))
		f.users.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAdminServiceFixture()
		userID := uuid.New()
		f.users.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		err := f.service.DeleteUser(context.Background(), userID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestAdminService_BroadcastAnnouncement(t *testing.T) {
	t.Run("publishes to the system destination", func(t *testing.T) {
		f := newAdminServiceFixture()
		err := f.service.BroadcastAnnouncement(context.Background(), "Maintenance", "Down at midnight")

		assert.NoError(t, err)
		events := f.publisher.Events()
		assert.Len(t, events, 1)
		assert.Equal(t, ws.EventTypeSystem, events[0].Type)
		assert.Empty(t, events[0].UserID, "broadcasts have no target user")
	})

	t.Run("empty announcement is rejected", func(t *testing.T) {
		f := newAdminServiceFixture()
		err := f.service.BroadcastAnnouncement(context.Background(), "", "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Empty(t, f.publisher.Events())
	})
}
