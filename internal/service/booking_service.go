package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mechhub/internal/errors"
	"mechhub/internal/model"
	"mechhub/internal/repository"
	"mechhub/internal/ws"
)

const (
	minEstimatedDuration = 1
	maxEstimatedDuration = 8
)

// CreateBookingInput carries the fields a customer submits for a new booking.
type CreateBookingInput struct {
	MechanicID         uuid.UUID
	ServiceDescription string
	Address            string
	City               string
	Pincode            string
	PreferredDate      time.Time
	EstimatedDuration  int
	Notes              string
}

// BookingService owns the booking lifecycle: creation, actor-triggered
// transitions along the canonical graph, listings and reviews.
type BookingService interface {
	Create(ctx context.Context, customerID uuid.UUID, input CreateBookingInput) (*model.Booking, error)
	Transition(ctx context.Context, bookingID, actorID uuid.UUID, action model.BookingAction) (*model.Booking, error)
	GetForCustomer(ctx context.Context, customerID, bookingID uuid.UUID) (*model.Booking, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Booking, error)
	ListForMechanic(ctx context.Context, mechanicUserID uuid.UUID, status model.BookingStatus) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	Review(ctx context.Context, customerID, bookingID uuid.UUID, rating int, comment string) (*model.Review, error)
}

type bookingService struct {
	txm          repository.TxManager
	bookingRepo  repository.BookingRepository
	mechanicRepo repository.MechanicRepository
	publisher    Publisher
}

// NewBookingService creates a new booking service.
func NewBookingService(
	txm repository.TxManager,
	bookingRepo repository.BookingRepository,
	mechanicRepo repository.MechanicRepository,
	publisher Publisher,
) BookingService {
	return &bookingService{
		txm:          txm,
		bookingRepo:  bookingRepo,
		mechanicRepo: mechanicRepo,
		publisher:    publisher,
	}
}

// Create validates the request and creates a PENDING booking with the
// mechanic's notification in one transaction. TotalCost stays unset until the
// mechanic accepts.
func (s *bookingService) Create(ctx context.Context, customerID uuid.UUID, input CreateBookingInput) (*model.Booking, error) {
	if input.EstimatedDuration < minEstimatedDuration || input.EstimatedDuration > maxEstimatedDuration {
		return nil, fmt.Errorf("%w: estimated_duration must be between %d and %d hours",
			errors.ErrValidation, minEstimatedDuration, maxEstimatedDuration)
	}

	var (
		booking      *model.Booking
		notification *model.Notification
		mechanic     *model.MechanicProfile
	)

	err := s.txm.WithTransaction(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		customer, err := repos.Users.FindByID(ctx, customerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrUserNotFound
			}
			return fmt.Errorf("find customer: %w", err)
		}

		mechanic, err = repos.Mechanics.FindByID(ctx, input.MechanicID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrMechanicNotFound
			}
			return fmt.Errorf("find mechanic: %w", err)
		}

		if !mechanic.Bookable() {
			return errors.ErrMechanicUnavailable
		}

		booking = &model.Booking{
			CustomerID:         customerID,
			MechanicID:         mechanic.ID,
			ServiceDescription: input.ServiceDescription,
			Address:            input.Address,
			City:               input.City,
			Pincode:            input.Pincode,
			PreferredDate:      input.PreferredDate,
			EstimatedDuration:  input.EstimatedDuration,
			Notes:              input.Notes,
			Status:             model.BookingStatusPending,
		}
		if err := repos.Bookings.Create(ctx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		notification = &model.Notification{
			UserID:    mechanic.UserID,
			Title:     "New Booking Request",
			Message:   fmt.Sprintf("You have received a new booking request from %s", customer.FullName),
			Type:      model.NotificationBookingRequest,
			BookingID: &booking.ID,
		}
		if err := repos.Notifications.Create(ctx, notification); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishNotification(notification)
	s.publishBookingUpdate(booking, mechanic.UserID)

	return booking, nil
}

// Transition applies an actor-triggered lifecycle action. Status change, cost
// computation and the counterpart notification commit atomically; push events
// go out only after the commit.
func (s *bookingService) Transition(ctx context.Context, bookingID, actorID uuid.UUID, action model.BookingAction) (*model.Booking, error) {
	var (
		booking      *model.Booking
		notification *model.Notification
		mechanicUser uuid.UUID
	)

	err := s.txm.WithTransaction(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		booking, err = repos.Bookings.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrBookingNotFound
			}
			return fmt.Errorf("find booking: %w", err)
		}

		mechanic, err := repos.Mechanics.FindByID(ctx, booking.MechanicID)
		if err != nil {
			return fmt.Errorf("find mechanic: %w", err)
		}
		mechanicUser = mechanic.UserID

		if action.MechanicAction() {
			if mechanic.UserID != actorID {
				return fmt.Errorf("%w: only the assigned mechanic may %s", errors.ErrAuthorization, action)
			}
		} else {
			if booking.CustomerID != actorID {
				return fmt.Errorf("%w: only the booking customer may cancel", errors.ErrAuthorization)
			}
		}

		next, ok := booking.Status.NextStatus(action)
		if !ok {
			return fmt.Errorf("%w: cannot %s a %s booking", errors.ErrInvalidState, action, booking.Status)
		}

		now := time.Now()
		booking.Status = next

		switch next {
		case model.BookingStatusAccepted:
			booking.AcceptedAt = &now
			if booking.TotalCost == nil {
				cost := mechanic.HourlyRate.Mul(decimal.NewFromInt(int64(booking.EstimatedDuration)))
				booking.TotalCost = &cost
			}
		case model.BookingStatusCompleted:
			booking.CompletedAt = &now
			mechanic.TotalJobs++
			if err := repos.Mechanics.Update(ctx, mechanic); err != nil {
				return fmt.Errorf("update mechanic: %w", err)
			}
		}

		if err := repos.Bookings.Update(ctx, booking); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}

		notification = transitionNotification(booking, mechanic, action)
		if err := repos.Notifications.Create(ctx, notification); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishNotification(notification)
	s.publishBookingUpdate(booking, mechanicUser)

	return booking, nil
}

// transitionNotification builds the counterpart notification for an applied
// action: mechanic actions notify the customer, cancel notifies the mechanic.
func transitionNotification(booking *model.Booking, mechanic *model.MechanicProfile, action model.BookingAction) *model.Notification {
	n := &model.Notification{BookingID: &booking.ID}

	switch action {
	case model.ActionAccept:
		n.UserID = booking.CustomerID
		n.Type = model.NotificationBookingAccepted
		n.Title = "Booking Accepted"
		n.Message = fmt.Sprintf("Your booking has been accepted by %s", mechanic.User.FullName)
	case model.ActionReject:
		n.UserID = booking.CustomerID
		n.Type = model.NotificationBookingRejected
		n.Title = "Booking Rejected"
		n.Message = fmt.Sprintf("Your booking has been rejected by %s", mechanic.User.FullName)
	case model.ActionStart:
		n.UserID = booking.CustomerID
		n.Type = model.NotificationBookingStarted
		n.Title = "Work Started"
		n.Message = fmt.Sprintf("%s has started working on your booking", mechanic.User.FullName)
	case model.ActionComplete:
		n.UserID = booking.CustomerID
		n.Type = model.NotificationBookingCompleted
		n.Title = "Booking Completed"
		n.Message = fmt.Sprintf("Your booking has been completed by %s", mechanic.User.FullName)
	case model.ActionCancel:
		n.UserID = mechanic.UserID
		n.Type = model.NotificationBookingCancelled
		n.Title = "Booking Cancelled"
		n.Message = "A booking assigned to you has been cancelled by the customer"
	}

	return n
}

// publishNotification pushes a stored notification to its recipient's feed.
func (s *bookingService) publishNotification(n *model.Notification) {
	if n == nil {
		return
	}
	s.publisher.PublishToUser(n.UserID.String(), ws.DestinationNotifications, ws.EventTypeNotification, n)
}

// publishBookingUpdate pushes the new booking state to both interested parties.
func (s *bookingService) publishBookingUpdate(b *model.Booking, mechanicUserID uuid.UUID) {
	if b == nil {
		return
	}
	s.publisher.PublishToUser(b.CustomerID.String(), ws.DestinationBookingUpdates, ws.EventTypeBookingUpdate, b)
	s.publisher.PublishToUser(mechanicUserID.String(), ws.DestinationBookingUpdates, ws.EventTypeBookingUpdate, b)
}

// GetForCustomer returns a booking if it belongs to the customer.
func (s *bookingService) GetForCustomer(ctx context.Context, customerID, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking.CustomerID != customerID {
		return nil, fmt.Errorf("%w: booking belongs to another customer", errors.ErrAuthorization)
	}
	return booking, nil
}

// ListForCustomer lists the customer's bookings, newest first.
func (s *bookingService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Booking, error) {
	return s.bookingRepo.ListByCustomer(ctx, customerID)
}

// ListForMechanic lists bookings assigned to the mechanic owned by the given
// user, optionally filtered by status.
func (s *bookingService) ListForMechanic(ctx context.Context, mechanicUserID uuid.UUID, status model.BookingStatus) ([]model.Booking, error) {
	mechanic, err := s.mechanicRepo.FindByUserID(ctx, mechanicUserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrMechanicNotFound
		}
		return nil, fmt.Errorf("find mechanic: %w", err)
	}

	if status != "" {
		return s.bookingRepo.ListByMechanicAndStatus(ctx, mechanic.ID, status)
	}
	return s.bookingRepo.ListByMechanic(ctx, mechanic.ID)
}

// ListAll lists every booking for admin moderation.
func (s *bookingService) ListAll(ctx context.Context) ([]model.Booking, error) {
	return s.bookingRepo.ListAll(ctx)
}

// Review records a customer's rating of a completed booking and refreshes the
// mechanic's running average.
func (s *bookingService) Review(ctx context.Context, customerID, bookingID uuid.UUID, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", errors.ErrValidation)
	}

	var review *model.Review

	err := s.txm.WithTransaction(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		booking, err := repos.Bookings.FindByID(ctx, bookingID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrBookingNotFound
			}
			return fmt.Errorf("find booking: %w", err)
		}

		if booking.CustomerID != customerID {
			return fmt.Errorf("%w: booking belongs to another customer", errors.ErrAuthorization)
		}
		if booking.Status != model.BookingStatusCompleted {
			return fmt.Errorf("%w: only completed bookings can be reviewed", errors.ErrInvalidState)
		}

		if _, err := repos.Reviews.FindByBookingID(ctx, bookingID); err == nil {
			return errors.ErrReviewExists
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("find review: %w", err)
		}

		review = &model.Review{
			BookingID:  bookingID,
			CustomerID: customerID,
			MechanicID: booking.MechanicID,
			Rating:     rating,
			Comment:    comment,
		}
		if err := repos.Reviews.Create(ctx, review); err != nil {
			return fmt.Errorf("create review: %w", err)
		}

		avg, _, err := repos.Reviews.AggregateByMechanic(ctx, booking.MechanicID)
		if err != nil {
			return fmt.Errorf("aggregate reviews: %w", err)
		}

		mechanic, err := repos.Mechanics.FindByID(ctx, booking.MechanicID)
		if err != nil {
			return fmt.Errorf("find mechanic: %w", err)
		}
		mechanic.Rating = avg
		if err := repos.Mechanics.Update(ctx, mechanic); err != nil {
			return fmt.Errorf("update mechanic rating: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}
